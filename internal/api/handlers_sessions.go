package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/hrdesk/hrdesk/internal/api/respond"
	"github.com/hrdesk/hrdesk/internal/api/validate"
	"github.com/hrdesk/hrdesk/internal/memory"
	"github.com/hrdesk/hrdesk/internal/model"
)

// SessionsHandler serves the session management surface.
type SessionsHandler struct {
	memory *memory.Manager
}

func NewSessionsHandler(mem *memory.Manager) *SessionsHandler {
	return &SessionsHandler{memory: mem}
}

// ListSessions handles GET /api/sessions.
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := h.memory.ListSessions(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list sessions")
		respond.WriteInternalError(w, "could not list sessions")
		return
	}
	if recs == nil {
		recs = []*model.ConversationRecord{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"sessions": recs})
}

// GetSessionMessages handles GET /api/sessions/{sessionId}/messages.
func (h *SessionsHandler) GetSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := validate.SessionID(sessionID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	msgs, err := h.memory.GetSessionMessages(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("failed to read session messages")
		respond.WriteInternalError(w, "could not read session messages")
		return
	}
	if msgs == nil {
		msgs = []*model.MemoryMessage{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"messages":   msgs,
	})
}

type createSessionRequest struct {
	SessionID string  `json:"session_id,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
}

// CreateSession handles POST /api/sessions.
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteBadRequest(w, "invalid JSON body")
			return
		}
	}
	if req.SessionID == "" {
		req.SessionID = newSessionID()
	} else if err := validate.SessionID(req.SessionID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	rec, err := h.memory.EnsureSession(r.Context(), req.SessionID, req.UserID)
	if err != nil {
		log.Error().Err(err).Str("session", req.SessionID).Msg("failed to create session")
		respond.WriteInternalError(w, "could not create session")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

// DeleteSession handles DELETE /api/sessions/{sessionId}.
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := validate.SessionID(sessionID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	err := h.memory.DeleteSession(r.Context(), sessionID)
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, "session not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("failed to delete session")
		respond.WriteInternalError(w, "could not delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllSessions handles DELETE /api/sessions.
func (h *SessionsHandler) DeleteAllSessions(w http.ResponseWriter, r *http.Request) {
	n, err := h.memory.DeleteAllSessions(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to delete sessions")
		respond.WriteInternalError(w, "could not delete sessions")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

type cleanupRequest struct {
	DaysOld int `json:"days_old,omitempty"`
}

// Cleanup handles POST /api/admin/cleanup: removes sessions idle past the
// retention horizon.
func (h *SessionsHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteBadRequest(w, "invalid JSON body")
			return
		}
	}
	if req.DaysOld < 0 {
		respond.WriteBadRequest(w, "days_old must not be negative")
		return
	}

	n, err := h.memory.Cleanup(r.Context(), req.DaysOld)
	if err != nil {
		log.Error().Err(err).Msg("cleanup failed")
		respond.WriteInternalError(w, "cleanup failed")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"removed": n})
}
