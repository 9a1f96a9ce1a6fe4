// Package memory implements the session-scoped conversation store: durable
// message history plus a bounded context window recomputed on every write.
package memory

import (
	"context"
	"errors"
	"time"

	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/store"
)

const (
	// DefaultMaxContextLength bounds the cached window and the default read
	// size. Small on purpose: it caps the token budget spent on history in
	// every model prompt.
	DefaultMaxContextLength = 10

	// DefaultCleanupAgeDays is the retention horizon for idle sessions.
	DefaultCleanupAgeDays = 30
)

// Manager mediates all conversation-record and message access. One instance
// is constructed at startup and passed into handlers explicitly.
type Manager struct {
	store            store.Store
	maxContextLength int
}

// NewManager builds a Manager over the given store. A non-positive
// maxContextLength falls back to the default.
func NewManager(s store.Store, maxContextLength int) *Manager {
	if maxContextLength <= 0 {
		maxContextLength = DefaultMaxContextLength
	}
	return &Manager{store: s, maxContextLength: maxContextLength}
}

// MaxContextLength reports the configured window bound.
func (m *Manager) MaxContextLength() int { return m.maxContextLength }

// EnsureSession returns the record for sessionID, creating it if absent.
// Creation is idempotent: the store enforces uniqueness on the session id, so
// concurrent first calls collapse into one record.
func (m *Manager) EnsureSession(ctx context.Context, sessionID string, userID *string) (*model.ConversationRecord, error) {
	rec, err := m.store.Sessions().Get(ctx, sessionID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewStorageError("sessions.get", err)
	}
	rec, err = m.store.Sessions().Create(ctx, &model.ConversationRecord{
		SessionID:     sessionID,
		UserID:        userID,
		KeyPoints:     []string{},
		Preferences:   map[string]string{},
		ContextWindow: []model.ContextMessage{},
	})
	if err != nil {
		return nil, model.NewStorageError("sessions.create", err)
	}
	return rec, nil
}

// AddMessage appends one turn to the session (creating it if needed), then
// recomputes the cached context window as the most recent maxContextLength
// messages in insertion order. Two store writes per call.
func (m *Manager) AddMessage(ctx context.Context, sessionID, role, content string, metadata map[string]interface{}) error {
	if _, err := m.EnsureSession(ctx, sessionID, nil); err != nil {
		return err
	}
	msg, err := m.store.Messages().Create(ctx, &model.MemoryMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
	})
	if err != nil {
		return model.NewStorageError("messages.create", err)
	}

	window, err := m.recentWindow(ctx, sessionID, m.maxContextLength)
	if err != nil {
		return err
	}
	// The fresh insert is visible to the read above, but guard against an
	// empty read anyway so the window never loses the turn just written.
	if len(window) == 0 {
		window = []model.ContextMessage{{Role: msg.Role, Content: msg.Content, Timestamp: msg.CreationTime}}
	}
	if err := m.store.Sessions().UpdateContextWindow(ctx, sessionID, window); err != nil {
		return model.NewStorageError("sessions.update_window", err)
	}
	return nil
}

// GetContext returns up to limit most recent messages for the session in
// chronological order. A non-positive limit uses the configured window bound.
// An unknown session yields an empty slice, never an error, and is not
// created as a side effect.
func (m *Manager) GetContext(ctx context.Context, sessionID string, limit int) ([]model.ContextMessage, error) {
	if limit <= 0 {
		limit = m.maxContextLength
	}
	return m.recentWindow(ctx, sessionID, limit)
}

// recentWindow reads the newest limit messages and reverses them into
// oldest-first order.
func (m *Manager) recentWindow(ctx context.Context, sessionID string, limit int) ([]model.ContextMessage, error) {
	msgs, err := m.store.Messages().ListRecent(ctx, sessionID, limit)
	if err != nil {
		return nil, model.NewStorageError("messages.list_recent", err)
	}
	window := make([]model.ContextMessage, len(msgs))
	for i, msg := range msgs {
		window[len(msgs)-1-i] = model.ContextMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreationTime,
		}
	}
	return window, nil
}

// Cleanup removes sessions whose last update is strictly older than
// now - daysOld days and returns the number removed. Sessions that were
// never updated carry no update timestamp and are not eligible.
func (m *Manager) Cleanup(ctx context.Context, daysOld int) (int, error) {
	if daysOld <= 0 {
		daysOld = DefaultCleanupAgeDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysOld)
	n, err := m.store.Sessions().DeleteUpdatedBefore(ctx, cutoff)
	if err != nil {
		return 0, model.NewStorageError("sessions.delete_updated_before", err)
	}
	return n, nil
}

// ListSessions returns recent sessions, newest creation first.
func (m *Manager) ListSessions(ctx context.Context, limit int) ([]*model.ConversationRecord, error) {
	recs, err := m.store.Sessions().List(ctx, limit)
	if err != nil {
		return nil, model.NewStorageError("sessions.list", err)
	}
	return recs, nil
}

// GetSessionMessages returns the full ordered history for one session,
// oldest first. Unknown sessions yield an empty slice.
func (m *Manager) GetSessionMessages(ctx context.Context, sessionID string) ([]*model.MemoryMessage, error) {
	msgs, err := m.store.Messages().List(ctx, sessionID, 0)
	if err != nil {
		return nil, model.NewStorageError("messages.list", err)
	}
	return msgs, nil
}

// DeleteSession removes one session and, by cascade, its messages. Returns
// model.ErrNotFound when the session does not exist.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	err := m.store.Sessions().Delete(ctx, sessionID)
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err != nil {
		return model.NewStorageError("sessions.delete", err)
	}
	return nil
}

// DeleteAllSessions removes every session and returns the count removed.
func (m *Manager) DeleteAllSessions(ctx context.Context) (int, error) {
	n, err := m.store.Sessions().DeleteAll(ctx)
	if err != nil {
		return 0, model.NewStorageError("sessions.delete_all", err)
	}
	return n, nil
}
