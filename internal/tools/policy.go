package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hrdesk/hrdesk/internal/search"
)

// PolicySearchTool answers policy questions from the vector index over the
// employee handbook.
type PolicySearchTool struct {
	index search.PolicyIndex
	topK  int
}

func NewPolicySearchTool(index search.PolicyIndex) *PolicySearchTool {
	return &PolicySearchTool{index: index, topK: 3}
}

func (t *PolicySearchTool) Name() string { return "search_hr_policies" }
func (t *PolicySearchTool) Description() string {
	return "Search the HR policy handbook for passages relevant to a question."
}

func (t *PolicySearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The policy question or topic"}
		},
		"required": ["query"]
	}`)
}

func (t *PolicySearchTool) Execute(ctx context.Context, args json.RawMessage) (*Result, error) {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return badArgs(err), nil
	}
	if strings.TrimSpace(params.Query) == "" {
		return errResult("query is required"), nil
	}
	if t.index == nil {
		return errResult("policy search is not configured on this deployment"), nil
	}

	hits, err := t.index.Search(ctx, params.Query, t.topK)
	if err != nil {
		return errResult("policy search failed: " + err.Error()), nil
	}
	if len(hits) == 0 {
		return textResult("No relevant policy passages were found."), nil
	}

	var b strings.Builder
	b.WriteString("Relevant policy passages:\n")
	for _, h := range hits {
		fmt.Fprintf(&b, "\n**%s** (%s)\n%s\n", h.Title, h.Category, h.Content)
	}
	return textResult(b.String()), nil
}
