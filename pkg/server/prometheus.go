package server

import (
	"context"

	"github.com/kylerisse/staleboard/pkg/staleness"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// nodeCollector exports per-node staleness, scanning the status directory
// at scrape time like the dashboard does per request.
type nodeCollector struct {
	s *Server

	age    *prometheus.Desc
	status *prometheus.Desc
	nodes  *prometheus.Desc
}

func newNodeCollector(s *Server) *nodeCollector {
	return &nodeCollector{
		s: s,
		age: prometheus.NewDesc(
			"staleboard_node_age_seconds",
			"Seconds since the node's status file was last modified.",
			[]string{"node"}, nil,
		),
		status: prometheus.NewDesc(
			"staleboard_node_status",
			"Staleness class of the node (1 for the current class, 0 otherwise).",
			[]string{"node", "class"}, nil,
		),
		nodes: prometheus.NewDesc(
			"staleboard_nodes",
			"Number of status files read successfully.",
			nil, nil,
		),
	}
}

func (c *nodeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.age
	ch <- c.status
	ch <- c.nodes
}

func (c *nodeCollector) Collect(ch chan<- prometheus.Metric) {
	records, err := c.s.collect(context.Background())
	if err != nil {
		c.s.logger.Errorf("Metrics: failed to read status directory %s: %v", c.s.statusDir, err)
		ch <- prometheus.NewInvalidMetric(c.nodes, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(len(records)))
	for _, rec := range records {
		ch <- prometheus.MustNewConstMetric(c.age, prometheus.GaugeValue, float64(rec.AgeSeconds), rec.Name)
		for _, class := range staleness.Classes {
			val := 0.0
			if rec.StatusClass == class {
				val = 1
			}
			ch <- prometheus.MustNewConstMetric(c.status, prometheus.GaugeValue, val, rec.Name, string(class))
		}
	}
}

// newMetricsRegistry builds a registry private to s rather than using the
// global default.
func newMetricsRegistry(s *Server) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		newNodeCollector(s),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "staleboard_scan_errors_total",
				Help: "Status files skipped because they could not be read.",
			},
			func() float64 { return float64(s.reader.Skipped()) },
		),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
