package memory

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/store"
	"github.com/hrdesk/hrdesk/internal/store/sqlite"
)

func newTestManager(t *testing.T, maxContext int) (*Manager, store.Store, *sql.DB) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "memory-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s, err := sqlite.NewWithDB(db)
	require.NoError(t, err)
	return NewManager(s, maxContext), s, db
}

func TestWindowStaysBounded(t *testing.T) {
	mgr, s, _ := newTestManager(t, 3)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, mgr.AddMessage(ctx, "sess-window", "user", fmt.Sprintf("turn %d", i), nil))
	}

	window, err := mgr.GetContext(ctx, "sess-window", 0)
	require.NoError(t, err)
	require.Len(t, window, 3)
	require.Equal(t, "turn 4", window[0].Content)
	require.Equal(t, "turn 5", window[1].Content)
	require.Equal(t, "turn 6", window[2].Content)

	// The cached copy on the record carries the same bounded window.
	rec, err := s.Sessions().Get(ctx, "sess-window")
	require.NoError(t, err)
	require.Len(t, rec.ContextWindow, 3)
	require.Equal(t, "turn 4", rec.ContextWindow[0].Content)
	require.NotNil(t, rec.LastUpdateTime)
}

func TestEnsureSessionIdempotent(t *testing.T) {
	mgr, _, _ := newTestManager(t, 0)
	ctx := context.Background()

	uid := "u-42"
	first, err := mgr.EnsureSession(ctx, "sess-once", &uid)
	require.NoError(t, err)
	require.NotNil(t, first.UserID)
	require.Equal(t, "u-42", *first.UserID)

	second, err := mgr.EnsureSession(ctx, "sess-once", nil)
	require.NoError(t, err)
	require.Equal(t, first.SessionID, second.SessionID)

	all, err := mgr.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGetContextUnknownSession(t *testing.T) {
	mgr, s, _ := newTestManager(t, 0)
	ctx := context.Background()

	window, err := mgr.GetContext(ctx, "never-seen-id", 0)
	require.NoError(t, err)
	require.Empty(t, window)

	// The read must not create the session.
	_, err = s.Sessions().Get(ctx, "never-seen-id")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCleanupBoundary(t *testing.T) {
	mgr, _, db := newTestManager(t, 0)
	ctx := context.Background()

	now := time.Now().UTC()
	touch := func(id string, at time.Time) {
		require.NoError(t, mgr.AddMessage(ctx, id, "user", "hello", nil))
		_, err := db.Exec(`UPDATE conversation_sessions SET last_update_time = ? WHERE session_id = ?`, at, id)
		require.NoError(t, err)
	}
	touch("fresh", now.AddDate(0, 0, -29))
	touch("boundary", now.AddDate(0, 0, -30).Add(time.Minute))
	touch("stale", now.AddDate(0, 0, -31))

	// Never-updated sessions carry no update timestamp and survive cleanup.
	_, err := mgr.EnsureSession(ctx, "untouched", nil)
	require.NoError(t, err)

	removed, err := mgr.Cleanup(ctx, 30)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	remaining, err := mgr.ListSessions(ctx, 0)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, rec := range remaining {
		ids[rec.SessionID] = true
	}
	require.True(t, ids["fresh"])
	require.True(t, ids["boundary"])
	require.True(t, ids["untouched"])
	require.False(t, ids["stale"])
}

func TestDeleteSessionCascades(t *testing.T) {
	mgr, _, _ := newTestManager(t, 0)
	ctx := context.Background()

	require.NoError(t, mgr.AddMessage(ctx, "sess-gone", "user", "hi", nil))
	require.NoError(t, mgr.AddMessage(ctx, "sess-gone", "assistant", "hello", nil))

	require.NoError(t, mgr.DeleteSession(ctx, "sess-gone"))

	window, err := mgr.GetContext(ctx, "sess-gone", 0)
	require.NoError(t, err)
	require.Empty(t, window)

	msgs, err := mgr.GetSessionMessages(ctx, "sess-gone")
	require.NoError(t, err)
	require.Empty(t, msgs)

	require.ErrorIs(t, mgr.DeleteSession(ctx, "sess-gone"), model.ErrNotFound)
}

func TestMessageMetadataSurvivesStorage(t *testing.T) {
	mgr, _, _ := newTestManager(t, 0)
	ctx := context.Background()

	meta := map[string]interface{}{"agent": "policy", "latencyMs": float64(120)}
	require.NoError(t, mgr.AddMessage(ctx, "sess-meta", "assistant", "cited the handbook", meta))

	msgs, err := mgr.GetSessionMessages(ctx, "sess-meta")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "assistant", msgs[0].Role)
	require.Equal(t, "cited the handbook", msgs[0].Content)
	require.Equal(t, "policy", msgs[0].Metadata["agent"])
}

func TestDeleteAllSessions(t *testing.T) {
	mgr, _, _ := newTestManager(t, 0)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, mgr.AddMessage(ctx, fmt.Sprintf("bulk-%d", i), "user", "x", nil))
	}
	n, err := mgr.DeleteAllSessions(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
