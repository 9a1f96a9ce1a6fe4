package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hrdesk/hrdesk/internal/api/respond"
	"github.com/hrdesk/hrdesk/internal/api/validate"
	"github.com/hrdesk/hrdesk/internal/search"
)

// PoliciesHandler serves the policy handbook ingestion surface.
type PoliciesHandler struct {
	index search.PolicyIndex
}

func NewPoliciesHandler(idx search.PolicyIndex) *PoliciesHandler {
	return &PoliciesHandler{index: idx}
}

type ingestPolicyRequest struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
}

// IngestPolicy handles POST /api/admin/policies: indexes one handbook
// document. Upserts are idempotent per title, so re-ingesting a revised
// document replaces the old passage.
func (h *PoliciesHandler) IngestPolicy(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "policy search is not configured on this deployment")
		return
	}

	var req ingestPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.NonEmpty("title", req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("content", req.Content); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.index.Upsert(r.Context(), req.Title, req.Category, req.Content); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("policy ingestion failed")
		respond.WriteInternalError(w, "could not index the policy document")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]string{"status": "indexed", "title": req.Title})
}
