// Package server exposes the splits HTTP API: submission, the text board,
// JSON listings, record boards, metrics, and optional static file serving.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/blaine-t/splits/internal/config"
	"github.com/blaine-t/splits/internal/split"
	"github.com/blaine-t/splits/internal/store"
)

// Notifier publishes the current board to an external channel after each
// accepted split.
type Notifier interface {
	NotifyBoard(content string, timeout time.Duration)
}

// Server holds the API's collaborators. Validation rules can be swapped at
// runtime via SetRules, which the config watcher uses for hot reload.
type Server struct {
	cfg       config.ServerConfig
	repo      store.Repository
	notifier  Notifier
	logger    *zap.Logger
	metrics   *Collector
	gatherer  prometheus.Gatherer
	sanitizer *bluemonday.Policy
	limiter   *RateLimiter

	rulesMu sync.RWMutex
	rules   split.Rules

	notifyTimeout time.Duration
}

// Options configures New beyond the required collaborators.
type Options struct {
	Notifier      Notifier
	NotifyTimeout time.Duration
	Registry      *prometheus.Registry
}

// New builds a Server. A nil Options.Registry gets a private registry so
// tests never collide on metric registration.
func New(cfg config.ServerConfig, repo store.Repository, rules split.Rules, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	notifyTimeout := opts.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}

	return &Server{
		cfg:           cfg,
		repo:          repo,
		notifier:      opts.Notifier,
		logger:        logger,
		metrics:       NewCollector(reg),
		gatherer:      reg,
		sanitizer:     bluemonday.StrictPolicy(),
		limiter:       NewRateLimiter(cfg.RateLimitPerMin),
		rules:         rules,
		notifyTimeout: notifyTimeout,
	}
}

// SetRules replaces the validation rules. Safe to call while serving.
func (s *Server) SetRules(rules split.Rules) {
	s.rulesMu.Lock()
	s.rules = rules
	s.rulesMu.Unlock()
	s.logger.Info("validation rules reloaded")
}

func (s *Server) currentRules() split.Rules {
	s.rulesMu.RLock()
	defer s.rulesMu.RUnlock()
	return s.rules
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// listener caps concurrent connections when MaxConns is set.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server listening", zap.String("addr", addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.limiter.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
