package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hrdesk/hrdesk/internal/agent"
	"github.com/hrdesk/hrdesk/internal/api/respond"
	"github.com/hrdesk/hrdesk/internal/api/validate"
	"github.com/hrdesk/hrdesk/internal/events"
)

// ChatHandler serves the synchronous and streaming chat surfaces.
type ChatHandler struct {
	supervisor *agent.Supervisor
}

func NewChatHandler(sup *agent.Supervisor) *ChatHandler {
	return &ChatHandler{supervisor: sup}
}

type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// newSessionID derives an id from the current time for callers that do not
// supply one.
func newSessionID() string {
	return fmt.Sprintf("session_%d", time.Now().UTC().UnixNano())
}

// PostChat handles POST /api/chat.
func (h *ChatHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.NonEmpty("query", req.Query); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = newSessionID()
	} else if err := validate.SessionID(req.SessionID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	answer, err := h.supervisor.HandleChat(r.Context(), req.SessionID, req.Query, nil)
	if err != nil {
		log.Error().Err(err).Str("session", req.SessionID).Msg("chat turn failed")
		respond.WriteInternalError(w, "the assistant could not complete this request")
		return
	}
	respond.WriteJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Response: answer})
}

// StreamChat handles GET /api/chat/stream. Lifecycle events are relayed as
// SSE frames, one JSON object per "data:" line, ending with a complete or
// error event.
func (h *ChatHandler) StreamChat(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respond.WriteBadRequest(w, "query parameter is required")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = newSessionID()
	} else if err := validate.SessionID(sessionID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.WriteInternalError(w, "streaming is not supported on this connection")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	stream := events.NewStream()
	go func() {
		defer stream.Close()
		if _, err := h.supervisor.HandleChat(r.Context(), sessionID, query, stream); err != nil {
			log.Error().Err(err).Str("session", sessionID).Msg("streamed chat turn failed")
			stream.Publish(events.Event{
				Type:      events.Error,
				SessionID: sessionID,
				Message:   "the assistant could not complete this request",
			})
		}
	}()

	for e := range stream.Events() {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}
