// Package agent runs tool-bearing specialists over the language model and a
// supervisor that routes each user request to one of them.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hrdesk/hrdesk/internal/events"
	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/tools"
)

// Agent is one specialist: a system prompt plus a tool registry, driven
// through a think, act, observe loop until the model stops calling tools.
type Agent struct {
	name         string
	systemPrompt string
	provider     llm.Provider
	tools        *tools.Registry
	maxTokens    int
	temperature  float64
	maxToolCalls int
	log          zerolog.Logger
}

type Options struct {
	MaxTokens    int
	Temperature  float64
	MaxToolCalls int
}

func New(name, systemPrompt string, provider llm.Provider, registry *tools.Registry, opts Options, log zerolog.Logger) *Agent {
	if opts.MaxToolCalls <= 0 {
		opts.MaxToolCalls = 8
	}
	return &Agent{
		name:         name,
		systemPrompt: systemPrompt,
		provider:     provider,
		tools:        registry,
		maxTokens:    opts.MaxTokens,
		temperature:  opts.Temperature,
		maxToolCalls: opts.MaxToolCalls,
		log:          log.With().Str("agent", name).Logger(),
	}
}

func (a *Agent) Name() string { return a.name }

// Run answers one user message given the session's recent history. Lifecycle
// events go to sink; the caller owns persistence of the final answer. When a
// sink is attached the model calls are streamed and each content delta is
// published as a Token event.
func (a *Agent) Run(ctx context.Context, history []model.ContextMessage, userText string, sink events.Sink) (string, error) {
	streaming := sink != nil
	if sink == nil {
		sink = events.Discard
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userText})

	toolCallCount := 0
	for {
		req := &llm.ChatRequest{
			Messages:     messages,
			Tools:        a.tools.Definitions(),
			MaxTokens:    a.maxTokens,
			Temperature:  a.temperature,
			SystemPrompt: a.systemPrompt,
		}
		resp, err := a.complete(ctx, req, sink, streaming)
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		toolCallCount += len(resp.ToolCalls)
		if toolCallCount > a.maxToolCalls {
			a.log.Warn().Int("tool_calls", toolCallCount).Msg("tool call budget exhausted")
			return "I reached the tool call limit for this request. Here is what I have so far: " + resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			sink.Publish(events.Event{Type: events.ToolStart, Agent: a.name, Tool: tc.Name})
			result := a.executeTool(ctx, tc)
			sink.Publish(events.Event{Type: events.ToolEnd, Agent: a.name, Tool: tc.Name, Content: result})

			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}
}

// complete runs one model call. The streaming path consumes StreamChat,
// publishing each content delta as a Token event, and reassembles the full
// response (content, tool calls, usage) for the loop to act on.
func (a *Agent) complete(ctx context.Context, req *llm.ChatRequest, sink events.Sink, streaming bool) (*llm.Response, error) {
	if !streaming {
		return a.provider.Chat(ctx, req)
	}

	ch, err := a.provider.StreamChat(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := &llm.Response{}
	var content strings.Builder
	for evt := range ch {
		if evt.Error != nil {
			return nil, evt.Error
		}
		if evt.ContentDelta != "" {
			content.WriteString(evt.ContentDelta)
			sink.Publish(events.Event{Type: events.Token, Agent: a.name, Content: evt.ContentDelta})
		}
		if len(evt.ToolCalls) > 0 {
			resp.ToolCalls = append(resp.ToolCalls, evt.ToolCalls...)
		}
		if evt.Usage != nil {
			resp.Usage = *evt.Usage
		}
	}
	resp.Content = content.String()
	return resp, nil
}

func (a *Agent) executeTool(ctx context.Context, tc llm.ToolCall) string {
	t, err := a.tools.Get(tc.Name)
	if err != nil {
		return fmt.Sprintf("Error: tool '%s' not found", tc.Name)
	}
	res, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		a.log.Error().Err(err).Str("tool", tc.Name).Msg("tool execution failed")
		return "Error executing tool: " + err.Error()
	}
	if res.IsError {
		return "Error: " + res.Error
	}
	return res.Output
}
