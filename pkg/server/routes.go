package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*
var templateFiles embed.FS

// routes registers all HTTP routes and wraps them in the middleware stack.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", s.handleDashboard)

	mux.HandleFunc("/api/nodes", s.handleNodesAPI)
	mux.HandleFunc("/api/nodes/{name}", s.handleNodeAPI)
	mux.HandleFunc("/api/summary", s.handleSummaryAPI)

	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{
		ErrorLog: s.logger,
	}))

	content, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Fatalf("Failed to create sub filesystem: %v", err)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(content))))

	var handler http.Handler = securityHeadersMiddleware(mux)
	handler = noCacheMiddleware(handler)
	if s.limiter != nil {
		handler = newRateLimitMiddleware(s.limiter)(handler)
	}
	return requireGET(handler)
}
