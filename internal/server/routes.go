package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Documents
	mux.HandleFunc("/api/documents/stats", s.app.DocumentHandler.StatsHandler)
	mux.HandleFunc("/api/documents", s.handleDocumentsRoute)
	mux.HandleFunc("/api/documents/", s.app.DocumentHandler.DocumentByIDHandler) // GET/DELETE /{id}

	// API routes - Summarization jobs
	mux.HandleFunc("/api/summaries", s.app.SummaryHandler.SubmitHandler) // POST - start async summarization
	mux.HandleFunc("/api/jobs/", s.app.SummaryHandler.PollHandler)       // GET /{id} - non-blocking poll

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleDocumentsRoute dispatches /api/documents by method
func (s *Server) handleDocumentsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.app.DocumentHandler.IngestHandler(w, r)
	case http.MethodGet:
		s.app.DocumentHandler.ListHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
