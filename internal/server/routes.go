package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all portal routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Page and static assets
	mux.HandleFunc("/", s.app.PageHandler.ServeIndex)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// Form submission, answered with an HTML fragment
	mux.HandleFunc("/results", s.app.AnalyzeHandler.HandleResults)

	// API routes
	mux.HandleFunc("/api/analyze", s.app.AnalyzeHandler.HandleAnalyze)
	mux.HandleFunc("/api/analysts", s.app.CatalogHandler.HandleAnalysts)
	mux.HandleFunc("/api/models", s.app.CatalogHandler.HandleModels)
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	if s.metrics != nil {
		mux.Handle(s.app.Config.Metrics.Path, s.metrics.Handler())
	}

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}

// edgeRoutes labels edge requests with their route for metrics. A ServeMux
// is not used because it would clean or redirect paths the dispatcher must
// see verbatim.
func edgeRoutes(staticPrefix string, dispatcher http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Pattern = "/"
		if strings.HasPrefix(r.URL.Path, staticPrefix) {
			r.Pattern = staticPrefix
		}
		dispatcher.ServeHTTP(w, r)
	})
}
