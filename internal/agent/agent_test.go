package agent

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hrdesk/hrdesk/internal/events"
	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/memory"
	"github.com/hrdesk/hrdesk/internal/store/sqlite"
	"github.com/hrdesk/hrdesk/internal/tools"
)

type scriptedProvider struct {
	responses []*llm.Response
	calls     int
	requests  []*llm.ChatRequest
}

func (p *scriptedProvider) Chat(_ context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	p.requests = append(p.requests, req)
	if p.calls >= len(p.responses) {
		return &llm.Response{Content: "done"}, nil
	}
	resp := p.responses[p.calls]
	p.calls++
	return resp, nil
}

func (p *scriptedProvider) StreamChat(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	resp, _ := p.Chat(ctx, req)
	ch := make(chan llm.StreamEvent, 2)
	if resp.Content != "" {
		ch <- llm.StreamEvent{ContentDelta: resp.Content}
	}
	ch <- llm.StreamEvent{ToolCalls: resp.ToolCalls, Done: true}
	close(ch)
	return ch, nil
}

func (p *scriptedProvider) Name() string         { return "scripted" }
func (p *scriptedProvider) DefaultModel() string { return "scripted-model" }

// echoTool records its invocations and returns a fixed answer.
type echoTool struct {
	invocations int
}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "Echo the input back." }
func (t *echoTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}}}`)
}
func (t *echoTool) Execute(_ context.Context, args json.RawMessage) (*tools.Result, error) {
	t.invocations++
	var p struct {
		Text string `json:"text"`
	}
	_ = json.Unmarshal(args, &p)
	return &tools.Result{Output: "echo: " + p.Text}, nil
}

func newTestMemory(t *testing.T) *memory.Manager {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "agent-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return memory.NewManager(s, 10)
}

func TestAgentReturnsDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{{Content: "the answer"}}}
	ag := New("test", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop())

	out, err := ag.Run(context.Background(), nil, "question", nil)
	require.NoError(t, err)
	require.Equal(t, "the answer", out)
}

func TestAgentExecutesToolThenAnswers(t *testing.T) {
	tool := &echoTool{}
	reg := tools.NewRegistry()
	reg.Register(tool)

	provider := &scriptedProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "echo", Arguments: json.RawMessage(`{"text":"hi"}`)}}},
		{Content: "final answer"},
	}}
	ag := New("test", "prompt", provider, reg, Options{MaxToolCalls: 3}, zerolog.Nop())

	stream := events.NewStream()
	out, err := ag.Run(context.Background(), nil, "use the tool", stream)
	stream.Close()
	require.NoError(t, err)
	require.Equal(t, "final answer", out)
	require.Equal(t, 1, tool.invocations)

	// The tool result is fed back to the model as an observation.
	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	require.Equal(t, "tool", last.Role)
	require.Equal(t, "echo: hi", last.Content)
	require.Equal(t, "c1", last.ToolCallID)

	var types []events.Type
	for e := range stream.Events() {
		types = append(types, e.Type)
	}
	require.Equal(t, []events.Type{events.ToolStart, events.ToolEnd, events.Token}, types)
}

// streamingProvider only supports the streaming surface; its Chat fails the
// test if called, proving the sink-attached path streams.
type streamingProvider struct {
	t      *testing.T
	deltas []string
}

func (p *streamingProvider) Chat(context.Context, *llm.ChatRequest) (*llm.Response, error) {
	p.t.Fatal("Chat must not be called when a sink is attached")
	return nil, nil
}

func (p *streamingProvider) StreamChat(context.Context, *llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	ch := make(chan llm.StreamEvent, len(p.deltas)+1)
	for _, d := range p.deltas {
		ch <- llm.StreamEvent{ContentDelta: d}
	}
	ch <- llm.StreamEvent{Done: true}
	close(ch)
	return ch, nil
}

func (p *streamingProvider) Name() string         { return "streaming" }
func (p *streamingProvider) DefaultModel() string { return "streaming-model" }

// chatOnlyProvider fails the test if the streaming surface is used.
type chatOnlyProvider struct {
	t *testing.T
}

func (p *chatOnlyProvider) Chat(context.Context, *llm.ChatRequest) (*llm.Response, error) {
	return &llm.Response{Content: "direct"}, nil
}

func (p *chatOnlyProvider) StreamChat(context.Context, *llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	p.t.Fatal("StreamChat must not be called without a sink")
	return nil, nil
}

func (p *chatOnlyProvider) Name() string         { return "chat-only" }
func (p *chatOnlyProvider) DefaultModel() string { return "chat-only-model" }

func TestAgentUsesChatWithoutSink(t *testing.T) {
	provider := &chatOnlyProvider{t: t}
	ag := New("test", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop())

	out, err := ag.Run(context.Background(), nil, "question", nil)
	require.NoError(t, err)
	require.Equal(t, "direct", out)
}

func TestSupervisorSynchronousTurnDoesNotStream(t *testing.T) {
	mem := newTestMemory(t)
	provider := &chatOnlyProvider{t: t}
	sup := NewSupervisor(provider, mem, 256, zerolog.Nop())
	sup.Register(New("database", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop()))

	answer, err := sup.HandleChat(context.Background(), "sess-sync", "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "direct", answer)
}

func TestAgentStreamsTokens(t *testing.T) {
	provider := &streamingProvider{t: t, deltas: []string{"goal ", "noted, ", "all set"}}
	ag := New("test", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop())

	stream := events.NewStream()
	out, err := ag.Run(context.Background(), nil, "track my goal", stream)
	stream.Close()
	require.NoError(t, err)
	require.Equal(t, "goal noted, all set", out)

	var tokens []string
	for e := range stream.Events() {
		require.Equal(t, events.Token, e.Type)
		tokens = append(tokens, e.Content)
	}
	require.Equal(t, []string{"goal ", "noted, ", "all set"}, tokens)
}

func TestAgentStopsAtToolBudget(t *testing.T) {
	tool := &echoTool{}
	reg := tools.NewRegistry()
	reg.Register(tool)

	call := llm.ToolCall{ID: "c", Name: "echo", Arguments: json.RawMessage(`{}`)}
	provider := &scriptedProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
		{ToolCalls: []llm.ToolCall{call}},
	}}
	ag := New("test", "prompt", provider, reg, Options{MaxToolCalls: 2}, zerolog.Nop())

	out, err := ag.Run(context.Background(), nil, "loop forever", nil)
	require.NoError(t, err)
	require.Contains(t, out, "tool call limit")
	require.Equal(t, 2, tool.invocations)
}

func TestAgentReportsUnknownTool(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "c1", Name: "missing", Arguments: json.RawMessage(`{}`)}}},
		{Content: "recovered"},
	}}
	ag := New("test", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop())

	out, err := ag.Run(context.Background(), nil, "q", nil)
	require.NoError(t, err)
	require.Equal(t, "recovered", out)

	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	require.Contains(t, last.Content, "not found")
}

func TestSupervisorRoutesAndPersists(t *testing.T) {
	mem := newTestMemory(t)
	provider := &scriptedProvider{responses: []*llm.Response{
		{Content: "performance"},          // routing decision
		{Content: "goal noted, all set"},  // specialist answer
	}}
	sup := NewSupervisor(provider, mem, 256, zerolog.Nop())
	for _, name := range []string{"database", "performance"} {
		sup.Register(New(name, "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop()))
	}

	stream := events.NewStream()
	answer, err := sup.HandleChat(context.Background(), "sess-1", "track my goal", stream)
	stream.Close()
	require.NoError(t, err)
	require.Equal(t, "goal noted, all set", answer)

	msgs, err := mem.GetSessionMessages(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "track my goal", msgs[0].Content)
	require.Equal(t, "assistant", msgs[1].Role)
	require.Equal(t, "performance", msgs[1].Metadata["agent"])

	var types []events.Type
	for e := range stream.Events() {
		types = append(types, e.Type)
	}
	require.Equal(t, []events.Type{events.AgentStart, events.Token, events.Complete}, types)
}

func TestSupervisorFallsBackToDefaultAgent(t *testing.T) {
	mem := newTestMemory(t)
	provider := &scriptedProvider{responses: []*llm.Response{
		{Content: "I am not sure what you mean"}, // unusable routing answer
		{Content: "answered by database agent"},
	}}
	sup := NewSupervisor(provider, mem, 256, zerolog.Nop())
	for _, name := range []string{"database", "policy"} {
		sup.Register(New(name, "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop()))
	}

	answer, err := sup.HandleChat(context.Background(), "sess-2", "gibberish request", nil)
	require.NoError(t, err)
	require.Equal(t, "answered by database agent", answer)
}

func TestSupervisorKeepsUserMessageOnFailure(t *testing.T) {
	mem := newTestMemory(t)
	// Routing succeeds, then the specialist's model call fails.
	provider := &failAfterProvider{failAfter: 1, scripted: scriptedProvider{
		responses: []*llm.Response{{Content: "database"}},
	}}
	sup := NewSupervisor(provider, mem, 256, zerolog.Nop())
	sup.Register(New("database", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop()))
	sup.Register(New("policy", "prompt", provider, tools.NewRegistry(), Options{MaxToolCalls: 3}, zerolog.Nop()))

	_, err := sup.HandleChat(context.Background(), "sess-3", "hello", nil)
	require.Error(t, err)

	msgs, err := mem.GetSessionMessages(context.Background(), "sess-3")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "user", msgs[0].Role)
}

type failAfterProvider struct {
	scripted  scriptedProvider
	failAfter int
	calls     int
}

func (p *failAfterProvider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	p.calls++
	if p.calls > p.failAfter {
		return nil, &llm.ProviderError{Type: llm.ErrorServerError, Message: "backend unavailable"}
	}
	return p.scripted.Chat(ctx, req)
}

func (p *failAfterProvider) StreamChat(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	resp, err := p.Chat(ctx, req)
	if err != nil {
		return nil, err
	}
	ch := make(chan llm.StreamEvent, 2)
	if resp.Content != "" {
		ch <- llm.StreamEvent{ContentDelta: resp.Content}
	}
	ch <- llm.StreamEvent{ToolCalls: resp.ToolCalls, Done: true}
	close(ch)
	return ch, nil
}

func (p *failAfterProvider) Name() string         { return "failing" }
func (p *failAfterProvider) DefaultModel() string { return "failing-model" }
