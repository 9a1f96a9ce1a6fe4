package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamDeliversInOrder(t *testing.T) {
	s := NewStream()
	s.Publish(Event{Type: AgentStart, Agent: "database"})
	s.Publish(Event{Type: Token, Content: "hello"})
	s.Publish(Event{Type: Complete, Content: "hello world"})
	s.Close()

	var got []Type
	for e := range s.Events() {
		got = append(got, e.Type)
	}
	require.Equal(t, []Type{AgentStart, Token, Complete}, got)
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	s := NewStream()
	s.Close()
	s.Close()
	s.Publish(Event{Type: Token})

	_, open := <-s.Events()
	require.False(t, open)
}

func TestPublishDropsWhenFull(t *testing.T) {
	s := NewStream()
	for i := 0; i < 200; i++ {
		s.Publish(Event{Type: Token})
	}
	s.Close()

	n := 0
	for range s.Events() {
		n++
	}
	require.Equal(t, 64, n)
}

func TestTerminalEventSurvivesFullBuffer(t *testing.T) {
	s := NewStream()
	for i := 0; i < 200; i++ {
		s.Publish(Event{Type: Token})
	}
	s.Publish(Event{Type: Complete, Content: "the answer"})
	s.Close()

	var last Event
	for e := range s.Events() {
		last = e
	}
	require.Equal(t, Complete, last.Type)
	require.Equal(t, "the answer", last.Content)
}

func TestErrorEventSurvivesFullBuffer(t *testing.T) {
	s := NewStream()
	for i := 0; i < 100; i++ {
		s.Publish(Event{Type: ToolEnd})
	}
	s.Publish(Event{Type: Error, Message: "model call failed"})
	s.Close()

	var last Event
	for e := range s.Events() {
		last = e
	}
	require.Equal(t, Error, last.Type)
}
