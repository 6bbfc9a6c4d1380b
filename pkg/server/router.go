package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bubblerow/pkg/observability"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics-list", s.handleMetrics)
	if s.opts.Recorder != nil {
		r.Get("/stats", s.handleStats)
	}
	r.Post("/layout", s.handleLayout)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/scroll", s.handleScroll)
			r.Post("/select", s.handleSelect)
			r.Put("/metric", s.handleMetric)
			r.Get("/frame", s.handleFrame)
		})
	})
	return r
}

// observe reports every request to the server hooks and logs it. 5xx
// responses log at error level, 4xx at warn.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.Server()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)

		route := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, route, status, dur)

		kv := []any{
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", dur,
			"request_id", chimw.GetReqID(ctx),
		}
		switch {
		case status >= 500:
			s.logger.Error("request failed", kv...)
		case status >= 400:
			s.logger.Warn("request rejected", kv...)
		default:
			s.logger.Debug("request", kv...)
		}
	})
}
