package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/kylerisse/staleboard/pkg/config"
	"github.com/kylerisse/staleboard/pkg/node"
	"github.com/kylerisse/staleboard/pkg/staleness"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Server renders the node status dashboard.
type Server struct {
	listenAddr string
	statusDir  string
	thresholds staleness.Thresholds
	location   *time.Location
	ageFormat  config.AgeFormat

	reader  *node.Reader
	source  node.Source
	cache   *node.CachedReader
	limiter *rate.Limiter

	tmpl    *template.Template
	metrics *prometheus.Registry

	logger     *logrus.Logger
	now        func() time.Time
	httpServer *http.Server
}

// NewServer builds a Server from cfg. The HTTP listener is not started
// until Start is called.
func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	reader := node.NewReader(cfg.StatusDir, cfg.Suffix, logger)

	s := &Server{
		listenAddr: cfg.ListenAddr,
		statusDir:  cfg.StatusDir,
		thresholds: cfg.Thresholds(),
		location:   loc,
		ageFormat:  cfg.AgeFormat,
		reader:     reader,
		source:     reader,
		tmpl:       tmpl,
		logger:     logger,
		now:        time.Now,
	}

	if cfg.Cache.Enabled {
		cache, err := node.NewCachedReader(reader, cfg.CacheTTL(), logger)
		if err != nil {
			return nil, fmt.Errorf("could not set up scan cache: %w", err)
		}
		s.cache = cache
		s.source = cache
		logger.Infof("Scan cache enabled with ttl %v", cfg.CacheTTL())
	}

	if cfg.RateLimit.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}

	s.metrics = newMetricsRegistry(s)

	return s, nil
}

// Start binds the HTTP listener and serves in the background.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		s.logger.Infof("Starting dashboard on %v, reading %s (warning %v, critical %v)",
			s.listenAddr, s.statusDir, s.thresholds.Warning, s.thresholds.Critical)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the HTTP listener and the scan cache.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.cache != nil {
		if cerr := s.cache.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.logger.Info("Dashboard stopped.")
	return err
}
