// Package api wires the HTTP surface: chat, session management, maintenance
// and health endpoints.
package api

import (
	"github.com/gorilla/mux"

	"github.com/hrdesk/hrdesk/internal/agent"
	"github.com/hrdesk/hrdesk/internal/api/recovery"
	"github.com/hrdesk/hrdesk/internal/memory"
	"github.com/hrdesk/hrdesk/internal/search"
	"github.com/hrdesk/hrdesk/internal/store"
)

// Deps carries the constructed dependencies into the router. Handlers never
// reach for process-global state. Policies may be nil; the ingestion
// endpoint then reports policy search as unconfigured.
type Deps struct {
	Store      store.Store
	Memory     *memory.Manager
	Supervisor *agent.Supervisor
	Policies   search.PolicyIndex
}

// NewRouter builds the HTTP router with all routes and global middleware.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(deps.Store)
	chatHandler := NewChatHandler(deps.Supervisor)
	sessionsHandler := NewSessionsHandler(deps.Memory)
	policiesHandler := NewPoliciesHandler(deps.Policies)

	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	router.HandleFunc("/api/chat", chatHandler.PostChat).Methods("POST")
	router.HandleFunc("/api/chat/stream", chatHandler.StreamChat).Methods("GET")

	router.HandleFunc("/api/sessions", sessionsHandler.ListSessions).Methods("GET")
	router.HandleFunc("/api/sessions", sessionsHandler.CreateSession).Methods("POST")
	router.HandleFunc("/api/sessions", sessionsHandler.DeleteAllSessions).Methods("DELETE")
	router.HandleFunc("/api/sessions/{sessionId}/messages", sessionsHandler.GetSessionMessages).Methods("GET")
	router.HandleFunc("/api/sessions/{sessionId}", sessionsHandler.DeleteSession).Methods("DELETE")

	router.HandleFunc("/api/admin/cleanup", sessionsHandler.Cleanup).Methods("POST")
	router.HandleFunc("/api/admin/policies", policiesHandler.IngestPolicy).Methods("POST")

	return router
}
