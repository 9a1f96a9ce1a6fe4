// Package events carries the lifecycle events a chat turn emits while the
// agent loop runs, for relay to streaming clients.
package events

import "sync"

type Type string

const (
	AgentStart Type = "agent_start"
	ToolStart  Type = "tool_start"
	ToolEnd    Type = "tool_end"
	Token      Type = "token"
	Complete   Type = "complete"
	Error      Type = "error"
)

// Event is one frame in a chat turn's lifecycle stream.
type Event struct {
	Type      Type   `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Agent     string `json:"agent,omitempty"`
	Tool      string `json:"tool,omitempty"`
	Content   string `json:"content,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Stream is a one-turn event pipe between the agent loop and a transport.
// Publish after Close is a no-op so producers need not coordinate shutdown
// with consumers.
type Stream struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func NewStream() *Stream {
	return &Stream{ch: make(chan Event, 64)}
}

// Publish emits an event. It drops the event rather than blocking when the
// consumer has fallen more than a buffer behind or the stream is closed.
// Terminal events (Complete, Error) are never dropped; a full buffer sheds
// its oldest frame to make room so the consumer always sees how the turn
// ended.
func (s *Stream) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if e.Type == Complete || e.Type == Error {
		for {
			select {
			case s.ch <- e:
				return
			default:
			}
			select {
			case <-s.ch:
			default:
			}
		}
	}
	select {
	case s.ch <- e:
	default:
	}
}

// Close ends the stream. Safe to call more than once.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Events is the consumer side; it is closed by Close.
func (s *Stream) Events() <-chan Event { return s.ch }

// Sink is the producer-facing interface; a nil-safe no-op implementation is
// available via Discard.
type Sink interface {
	Publish(e Event)
}

type discard struct{}

func (discard) Publish(Event) {}

// Discard swallows all events.
var Discard Sink = discard{}
