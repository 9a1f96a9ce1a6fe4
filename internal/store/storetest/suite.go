// Package storetest holds a driver-agnostic test suite for store.Store
// implementations. Each backend test package supplies a factory and runs the
// suite against it.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrdesk/hrdesk/internal/model"
	"github.com/hrdesk/hrdesk/internal/store"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

// RunConversationSuite exercises the session and message aggregates that back
// conversation memory.
func RunConversationSuite(t *testing.T, newStore Factory) {
	t.Run("SessionCreateIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-1"})
		require.NoError(t, err)
		require.Equal(t, "sess-1", first.SessionID)
		require.False(t, first.CreationTime.IsZero())
		require.Nil(t, first.LastUpdateTime)

		again, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-1"})
		require.NoError(t, err)
		require.Equal(t, first.CreationTime.Unix(), again.CreationTime.Unix())

		all, err := s.Sessions().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("SessionGetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Sessions().Get(context.Background(), "no-such-session")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("UpdateContextWindowSetsLastUpdate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-upd"})
		require.NoError(t, err)

		window := []model.ContextMessage{
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi there"},
		}
		require.NoError(t, s.Sessions().UpdateContextWindow(ctx, "sess-upd", window))

		rec, err := s.Sessions().Get(ctx, "sess-upd")
		require.NoError(t, err)
		require.NotNil(t, rec.LastUpdateTime)
		require.Len(t, rec.ContextWindow, 2)
		require.Equal(t, "hello", rec.ContextWindow[0].Content)

		err = s.Sessions().UpdateContextWindow(ctx, "missing", window)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("SessionDelete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-del"})
		require.NoError(t, err)
		require.NoError(t, s.Sessions().Delete(ctx, "sess-del"))

		_, err = s.Sessions().Get(ctx, "sess-del")
		require.ErrorIs(t, err, model.ErrNotFound)
		require.ErrorIs(t, s.Sessions().Delete(ctx, "sess-del"), model.ErrNotFound)
	})

	t.Run("DeleteAllReportsCount", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: fmt.Sprintf("bulk-%d", i)})
			require.NoError(t, err)
		}
		n, err := s.Sessions().DeleteAll(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, n)
	})

	t.Run("DeleteUpdatedBeforeSkipsUntouched", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		// Touched session qualifies for cleanup once its update time passes
		// the cutoff. An untouched one never does.
		_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "stale"})
		require.NoError(t, err)
		require.NoError(t, s.Sessions().UpdateContextWindow(ctx, "stale", nil))

		_, err = s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "untouched"})
		require.NoError(t, err)

		n, err := s.Sessions().DeleteUpdatedBefore(ctx, time.Now().Add(time.Hour).UTC())
		require.NoError(t, err)
		require.Equal(t, 1, n)

		_, err = s.Sessions().Get(ctx, "stale")
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = s.Sessions().Get(ctx, "untouched")
		require.NoError(t, err)
	})

	t.Run("MessageOrderingFollowsInsertion", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-msg"})
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			msg, err := s.Messages().Create(ctx, &model.MemoryMessage{
				SessionID: "sess-msg",
				Role:      "user",
				Content:   fmt.Sprintf("turn %d", i),
			})
			require.NoError(t, err)
			require.NotZero(t, msg.ID)
		}

		recent, err := s.Messages().ListRecent(ctx, "sess-msg", 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		require.Equal(t, "turn 4", recent[0].Content)
		require.Equal(t, "turn 2", recent[2].Content)

		all, err := s.Messages().List(ctx, "sess-msg", 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		require.Equal(t, "turn 0", all[0].Content)
		require.Equal(t, "turn 4", all[4].Content)
	})

	t.Run("MessageMetadataRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-meta"})
		require.NoError(t, err)

		_, err = s.Messages().Create(ctx, &model.MemoryMessage{
			SessionID: "sess-meta",
			Role:      "assistant",
			Content:   "done",
			Metadata:  map[string]interface{}{"agent": "database", "toolCalls": float64(2)},
		})
		require.NoError(t, err)

		got, err := s.Messages().List(ctx, "sess-meta", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "database", got[0].Metadata["agent"])
	})

	t.Run("DeletingSessionRemovesMessages", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Sessions().Create(ctx, &model.ConversationRecord{SessionID: "sess-cascade"})
		require.NoError(t, err)
		_, err = s.Messages().Create(ctx, &model.MemoryMessage{SessionID: "sess-cascade", Role: "user", Content: "hi"})
		require.NoError(t, err)

		require.NoError(t, s.Sessions().Delete(ctx, "sess-cascade"))
		left, err := s.Messages().List(ctx, "sess-cascade", 0)
		require.NoError(t, err)
		require.Empty(t, left)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(context.Background()))
	})
}
