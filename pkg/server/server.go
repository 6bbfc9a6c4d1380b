// Package server exposes the layout engine and scroll sessions over HTTP.
//
// Stateless endpoints compute layouts on demand. Stateful endpoints create
// scroll sessions: each session owns a layout and a [scroll.Tracker], and
// clients drive it by posting coordinates, wheel deltas, select commands
// and metric changes. Settling is pulled rather than pushed: every session
// request first advances the tracker to the current time, so a client that
// polls GET /sessions/{id} sees the snap once the quiet period has passed.
//
// # Routes
//
//	GET    /healthz
//	GET    /metrics-list
//	GET    /stats
//	POST   /layout
//	POST   /sessions
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
//	POST   /sessions/{id}/scroll
//	POST   /sessions/{id}/select
//	PUT    /sessions/{id}/metric
//	GET    /sessions/{id}/frame
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/observability"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
	"github.com/matzehuels/bubblerow/pkg/session"
)

// Defaults for [Options].
const (
	DefaultAddr            = ":8080"
	DefaultCleanupInterval = time.Minute
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures a [Server]. Only Runner is required.
type Options struct {
	Addr   string
	Runner *pipeline.Runner
	Store  session.Store
	Logger *log.Logger

	// Layout holds the base layout options; requests override the metric
	// and the entity set.
	Layout pipeline.Options

	// Tracker configures every session's scroll tracker.
	Tracker scroll.Config

	SessionTTL      time.Duration
	CleanupInterval time.Duration

	// Recorder backs GET /stats when set.
	Recorder *observability.Recorder
}

// Server is the HTTP front end.
type Server struct {
	opts     Options
	runner   *pipeline.Runner
	store    session.Store
	logger   *log.Logger
	entities []entity.Entity
	handler  http.Handler

	now func() time.Time
}

// New loads the default entity set and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Tracker.Spacing == 0 {
		opts.Tracker.Spacing = pipeline.DefaultSpacing
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}

	entities, err := pipeline.Load(opts.Layout)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		runner:   opts.Runner,
		store:    opts.Store,
		logger:   opts.Logger,
		entities: entities,
		now:      time.Now,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.janitor(janitorCtx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr, "entities", len(s.entities))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Server) sweep(ctx context.Context) {
	expired, err := s.store.Cleanup(ctx)
	if err != nil {
		s.logger.Warn("session cleanup failed", "err", err)
		return
	}
	for _, id := range expired {
		observability.Server().OnSessionExpired(ctx, id)
	}
	if len(expired) > 0 {
		s.logger.Debug("expired sessions", "count", len(expired), "open", s.store.Len())
	}
}
