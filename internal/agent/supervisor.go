package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hrdesk/hrdesk/internal/events"
	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/memory"
)

// defaultAgent catches requests the router cannot place.
const defaultAgent = "database"

// Supervisor owns the specialists and the per-turn orchestration: persist the
// user message, pick an agent with a model call, run it over the session's
// context window, persist the answer.
type Supervisor struct {
	provider  llm.Provider
	memory    *memory.Manager
	agents    map[string]*Agent
	maxTokens int
	log       zerolog.Logger
}

func NewSupervisor(provider llm.Provider, mem *memory.Manager, maxTokens int, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		provider:  provider,
		memory:    mem,
		agents:    make(map[string]*Agent),
		maxTokens: maxTokens,
		log:       log.With().Str("component", "supervisor").Logger(),
	}
}

func (s *Supervisor) Register(a *Agent) { s.agents[a.Name()] = a }

// AgentNames lists the registered specialists.
func (s *Supervisor) AgentNames() []string {
	names := make([]string, 0, len(s.agents))
	for n := range s.agents {
		names = append(names, n)
	}
	return names
}

// HandleChat runs one full chat turn. The user message is persisted before
// the model is consulted, so history survives a downstream failure.
func (s *Supervisor) HandleChat(ctx context.Context, sessionID, query string, sink events.Sink) (string, error) {
	// The agent gets the caller's sink untouched; a nil sink selects the
	// non-streaming model path inside Run.
	emitter := sink
	if emitter == nil {
		emitter = events.Discard
	}

	history, err := s.memory.GetContext(ctx, sessionID, 0)
	if err != nil {
		return "", err
	}
	if err := s.memory.AddMessage(ctx, sessionID, "user", query, nil); err != nil {
		return "", err
	}

	name := s.route(ctx, query)
	ag, ok := s.agents[name]
	if !ok {
		return "", fmt.Errorf("no agent registered under %q", name)
	}
	s.log.Debug().Str("session", sessionID).Str("agent", name).Msg("routed chat turn")
	emitter.Publish(events.Event{Type: events.AgentStart, SessionID: sessionID, Agent: name})

	answer, err := ag.Run(ctx, history, query, sink)
	if err != nil {
		return "", err
	}

	// The answer is already in hand; a failed history write must not turn a
	// successful turn into an error.
	meta := map[string]interface{}{"agent": name}
	if err := s.memory.AddMessage(ctx, sessionID, "assistant", answer, meta); err != nil {
		s.log.Error().Err(err).Str("session", sessionID).Msg("failed to persist assistant reply")
	}

	emitter.Publish(events.Event{Type: events.Complete, SessionID: sessionID, Agent: name, Content: answer})
	return answer, nil
}

// route asks the model which specialist should take the request. Anything
// unexpected falls back to the database agent.
func (s *Supervisor) route(ctx context.Context, query string) string {
	if len(s.agents) == 1 {
		for n := range s.agents {
			return n
		}
	}

	names := s.AgentNames()
	prompt := fmt.Sprintf(
		"You route HR assistant requests to a specialist.\n\nSpecialists: %s\n\nRequest: %s\n\nRespond with exactly one specialist name and nothing else.",
		strings.Join(names, ", "), query)

	resp, err := s.provider.Chat(ctx, &llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: 16,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("routing call failed, using default agent")
		return defaultAgent
	}

	choice := strings.ToLower(strings.TrimSpace(resp.Content))
	for _, n := range names {
		if strings.Contains(choice, n) {
			return n
		}
	}
	return defaultAgent
}
