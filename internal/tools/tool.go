// Package tools implements the callable functions the agents expose to the
// model. Every tool returns a textual Result; failures become descriptive
// error results rather than raised errors, because the agent loop feeds any
// returned string back to the model as an observation.
package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hrdesk/hrdesk/internal/model"
)

// Tool is one model-invocable function.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage // JSON Schema
	Execute(ctx context.Context, args json.RawMessage) (*Result, error)
}

// Result is the outcome of a tool execution. IsError marks validation or
// lookup failures the model should see and react to.
type Result struct {
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
	IsError bool   `json:"is_error"`
}

func textResult(s string) *Result          { return &Result{Output: s} }
func errResult(msg string) *Result         { return &Result{Error: msg, IsError: true} }
func badArgs(err error) *Result            { return errResult("invalid arguments: " + err.Error()) }
func (r *Result) Text() string {
	if r.IsError {
		return r.Error
	}
	return r.Output
}

func errorsIsNotFound(err error) bool { return errors.Is(err, model.ErrNotFound) }
