package server

import (
	"encoding/json"
	"net/http"

	"github.com/kylerisse/staleboard/pkg/node"
)

func (s *Server) handleNodesAPI(w http.ResponseWriter, r *http.Request) {
	records, err := s.collect(r.Context())
	if err != nil {
		s.logger.Errorf("API Handler: failed to read status directory %s: %v", s.statusDir, err)
		http.Error(w, "Failed to read node statuses", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []node.Record{}
	}
	writeJSON(w, records)
}

func (s *Server) handleNodeAPI(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	records, err := s.collect(r.Context())
	if err != nil {
		s.logger.Errorf("API Handler: failed to read status directory %s: %v", s.statusDir, err)
		http.Error(w, "Failed to read node statuses", http.StatusInternalServerError)
		return
	}

	for _, rec := range records {
		if rec.Name == name {
			writeJSON(w, rec)
			return
		}
	}
	http.Error(w, "Node not found", http.StatusNotFound)
}

func (s *Server) handleSummaryAPI(w http.ResponseWriter, r *http.Request) {
	records, err := s.collect(r.Context())
	if err != nil {
		s.logger.Errorf("API Handler: failed to read status directory %s: %v", s.statusDir, err)
		http.Error(w, "Failed to read node statuses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summarize(records))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
