package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/kylerisse/staleboard/pkg/config"
	"github.com/kylerisse/staleboard/pkg/node"
)

type dashboardData struct {
	Nodes       []node.Record
	Summary     Summary
	ShowSeconds bool
	Warning     time.Duration
	Critical    time.Duration
	GeneratedAt string
}

// handleDashboard renders the node table. Listing failures are logged and
// the page is rendered with no nodes; only a template failure yields 500.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	records, err := s.collect(r.Context())
	if err != nil {
		s.logger.Errorf("Dashboard: failed to read status directory %s: %v", s.statusDir, err)
	}

	data := dashboardData{
		Nodes:       records,
		Summary:     summarize(records),
		ShowSeconds: s.ageFormat == config.AgeSeconds,
		Warning:     s.thresholds.Warning,
		Critical:    s.thresholds.Critical,
		GeneratedAt: s.now().In(s.location).Format(node.TimestampLayout),
	}

	// Render into a buffer so a template error can still become a 500.
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		s.logger.Errorf("Dashboard: failed to render template: %v", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debugf("Dashboard: failed to write response: %v", err)
	}
}
