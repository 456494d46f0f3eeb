package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func metricLine(body, prefix string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

func TestMetrics_NodeGauges(t *testing.T) {
	dir := t.TempDir()
	writeNode(t, dir, "a.txt", "", 400*time.Second)
	writeNode(t, dir, "b.txt", "", 10*time.Second)

	s, _ := newTestServer(t, dir, nil)
	w := serve(s.routes(), "GET", "/metrics")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()

	for _, want := range []string{
		"# HELP staleboard_node_age_seconds",
		"# TYPE staleboard_node_age_seconds gauge",
		`staleboard_node_age_seconds{node="a"} 400`,
		`staleboard_node_age_seconds{node="b"} 10`,
		`staleboard_node_status{class="warning",node="a"} 1`,
		`staleboard_node_status{class="normal",node="a"} 0`,
		`staleboard_node_status{class="normal",node="b"} 1`,
		"staleboard_nodes 2",
		"staleboard_scan_errors_total 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q, got:\n%s", want, body)
		}
	}
}

func TestMetrics_ScanErrors(t *testing.T) {
	dir := t.TempDir()
	writeNode(t, dir, "ok.txt", "", time.Second)
	if err := os.Mkdir(filepath.Join(dir, "bad.txt"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	s, _ := newTestServer(t, dir, nil)
	h := s.routes()

	// One dashboard request guarantees at least one skip before the scrape.
	serve(h, "GET", "/")
	body := serve(h, "GET", "/metrics").Body.String()

	line, ok := metricLine(body, "staleboard_scan_errors_total ")
	if !ok {
		t.Fatalf("expected scan error counter, got:\n%s", body)
	}
	if strings.HasSuffix(line, " 0") {
		t.Errorf("expected non-zero scan errors, got %q", line)
	}
	if !strings.Contains(body, "staleboard_nodes 1") {
		t.Error("expected one readable node")
	}
}

func TestMetrics_MissingDirectory(t *testing.T) {
	s, _ := newTestServer(t, filepath.Join(t.TempDir(), "absent"), nil)
	body := serve(s.routes(), "GET", "/metrics").Body.String()

	if !strings.Contains(body, "staleboard_nodes 0") {
		t.Errorf("expected zero nodes, got:\n%s", body)
	}
	if _, ok := metricLine(body, "staleboard_node_age_seconds{"); ok {
		t.Error("expected no per-node series")
	}
}
