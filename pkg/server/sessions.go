package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/lineup"
	"github.com/matzehuels/bubblerow/pkg/observability"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
	"github.com/matzehuels/bubblerow/pkg/session"
	"github.com/matzehuels/bubblerow/pkg/sink"
)

// sessionView is the client-visible state of a scroll session.
type sessionView struct {
	ID            string  `json:"id"`
	Metric        string  `json:"metric"`
	State         string  `json:"state"`
	Count         int     `json:"count"`
	Spacing       float64 `json:"spacing"`
	Index         float64 `json:"index"`
	Coordinate    float64 `json:"coordinate"`
	MaxCoordinate float64 `json:"max_coordinate"`
	Position      int     `json:"position"`
	SelectedID    *int    `json:"selected_id,omitempty"`
	Suppressed    bool    `json:"suppressed"`
	Padding       float64 `json:"padding,omitempty"`
}

func viewOf(sess *session.Session) sessionView {
	tr := sess.Tracker
	l := sess.Result.Layout
	v := sessionView{
		ID:            sess.ID,
		Metric:        string(sess.Result.Metric),
		State:         tr.State().String(),
		Count:         tr.Len(),
		Spacing:       tr.Spacing(),
		Index:         tr.Index(),
		Coordinate:    tr.Coordinate(),
		MaxCoordinate: tr.MaxCoordinate(),
		Position:      tr.Position(),
		Suppressed:    tr.Suppressed(),
	}
	if sess.Viewport > 0 {
		v.Padding = scroll.Padding(sess.Viewport, tr.Spacing())
	}
	// While a drive is in flight the selection stays on its target instead
	// of following the coordinate.
	if tr.Suppressed() {
		if id, ok := l.Index.IDAt(tr.TargetPosition()); ok {
			v.SelectedID = &id
		}
	} else if id, ok := l.Selected(tr.Index()); ok {
		v.SelectedID = &id
	}
	return v
}

// eventView reports what the tracker asks of the client.
type eventView struct {
	Index    float64  `json:"index"`
	Snap     bool     `json:"snap"`
	Target   *float64 `json:"target,omitempty"`
	Settled  bool     `json:"settled"`
	Position *int     `json:"position,omitempty"`
}

// mergeEvents folds events in order; later snaps and settles win.
func mergeEvents(events ...scroll.Event) eventView {
	var v eventView
	for _, ev := range events {
		v.Index = ev.Index
		if ev.Snap {
			target := ev.Target
			v.Snap, v.Target = true, &target
		}
		if ev.Settled {
			pos := ev.Position
			v.Settled, v.Position = true, &pos
		}
	}
	return v
}

type sessionResponse struct {
	Session sessionView      `json:"session"`
	Event   *eventView       `json:"event,omitempty"`
	Frame   *lineup.Frame    `json:"frame,omitempty"`
	Layout  *lineup.Snapshot `json:"layout,omitempty"`
}

type createSessionRequest struct {
	Metric     string          `json:"metric,omitempty"`
	CenteredID *int            `json:"centered_id,omitempty"`
	Spacing    float64         `json:"spacing,omitempty"`
	Viewport   float64         `json:"viewport,omitempty"`
	Entities   []entity.Entity `json:"entities,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := s.opts.Tracker
	if req.Spacing != 0 {
		if err := errors.ValidateSpacing(req.Spacing); err != nil {
			s.writeError(w, r, err)
			return
		}
		cfg.Spacing = req.Spacing
	}
	if req.Viewport < 0 || !finite(req.Viewport) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "viewport must be a non-negative number"))
		return
	}

	opts := s.layoutOptions(pipeline.Options{
		Metric:           req.Metric,
		PreviousCentered: req.CenteredID,
		Entities:         req.Entities,
	})
	entities, err := s.loadEntities(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Layout(r.Context(), entities, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	tr := scroll.NewTracker(cfg, res.Layout.Len())
	ev := tr.Jump(res.Layout.CenteredPosition, now)

	sess := session.New(res, tr, s.opts.SessionTTL)
	sess.Options = opts
	sess.Viewport = req.Viewport
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Server().OnSessionCreated(r.Context(), sess.ID)
	s.logger.Debug("session created", "id", sess.ID, "metric", res.Metric, "entities", len(entities))

	snap := res.Snapshot()
	event := mergeEvents(ev)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Session: viewOf(sess),
		Event:   &event,
		Layout:  &snap,
	})
}

// withSession loads the session named in the URL, locks it, advances its
// tracker to now and hands the tick's event to fn.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *session.Session, tick scroll.Event, now time.Time) error) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Lock()
	defer sess.Unlock()

	now := s.now()
	tick := sess.Tracker.Tick(now)
	if err := fn(sess, tick, now); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session, tick scroll.Event, _ time.Time) error {
		event := mergeEvents(tick)
		writeJSON(w, http.StatusOK, sessionResponse{Session: viewOf(sess), Event: &event})
		return nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scrollRequest carries either an absolute coordinate or a relative delta.
// A delta is always a user gesture; an absolute coordinate is one only when
// Input is set, otherwise it is treated as progress of a snap or drive.
type scrollRequest struct {
	Coordinate *float64 `json:"coordinate,omitempty"`
	Delta      *float64 `json:"delta,omitempty"`
	Input      bool     `json:"input,omitempty"`
}

func (req scrollRequest) validate() error {
	switch {
	case req.Coordinate == nil && req.Delta == nil:
		return errors.New(errors.ErrCodeInvalidInput, "one of coordinate or delta is required")
	case req.Coordinate != nil && req.Delta != nil:
		return errors.New(errors.ErrCodeInvalidInput, "coordinate and delta are mutually exclusive")
	case req.Coordinate != nil && !finite(*req.Coordinate):
		return errors.New(errors.ErrCodeInvalidInput, "coordinate must be finite")
	case req.Delta != nil && !finite(*req.Delta):
		return errors.New(errors.ErrCodeInvalidInput, "delta must be finite")
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *session.Session, tick scroll.Event, now time.Time) error {
		tr := sess.Tracker
		var event eventView
		switch {
		case req.Delta != nil:
			event = mergeEvents(tr.Scroll(*req.Delta, now))
		case req.Input:
			// user input cancels whatever the tick asked for
			tr.Input(now)
			event = mergeEvents(tr.Observe(*req.Coordinate, now))
		default:
			event = mergeEvents(tick, tr.Observe(*req.Coordinate, now))
		}

		fr := sess.Result.Frame(tr.Coordinate(), tr.Spacing())
		writeJSON(w, http.StatusOK, sessionResponse{
			Session: viewOf(sess),
			Event:   &event,
			Frame:   &fr,
		})
		return nil
	})
}

type selectRequest struct {
	EntityID *int `json:"entity_id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.EntityID == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "entity_id is required"))
		return
	}

	s.withSession(w, r, func(sess *session.Session, tick scroll.Event, now time.Time) error {
		pos, ok := sess.Result.Layout.Index.PositionOf(*req.EntityID)
		if !ok {
			return errors.New(errors.ErrCodeEntityNotFound, "entity %d is not in this session", *req.EntityID)
		}
		event := mergeEvents(tick, sess.Tracker.Drive(pos, now))
		writeJSON(w, http.StatusOK, sessionResponse{Session: viewOf(sess), Event: &event})
		return nil
	})
}

type metricRequest struct {
	Metric string `json:"metric"`
}

// handleMetric re-lays the session out under a new metric. The entity
// nearest the current index stays centred at its new position.
func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request) {
	var req metricRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := entity.ParseMetric(req.Metric); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *session.Session, _ scroll.Event, now time.Time) error {
		tr := sess.Tracker
		opts := sess.Options
		opts.Metric = req.Metric
		opts.PreviousCentered = nil
		if id, ok := sess.Result.Layout.Index.IDAt(scroll.Nearest(tr.Index(), tr.Len())); ok {
			opts.PreviousCentered = &id
		}

		res, err := s.runner.Layout(r.Context(), sess.Result.Entities, opts)
		if err != nil {
			return err
		}
		sess.Result = res
		sess.Options = opts
		tr.Resize(res.Layout.Len())
		event := mergeEvents(tr.Jump(res.Layout.CenteredPosition, now))

		snap := res.Snapshot()
		writeJSON(w, http.StatusOK, sessionResponse{
			Session: viewOf(sess),
			Event:   &event,
			Layout:  &snap,
		})
		return nil
	})
}

var contentTypes = map[string]string{
	sink.FormatSVG:  "image/svg+xml",
	sink.FormatJSON: "application/json",
	sink.FormatPNG:  "image/png",
	sink.FormatPDF:  "application/pdf",
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ropts := pipeline.RenderOptions{Format: q.Get("format")}
	if ropts.Format == "" {
		ropts.Format = sink.FormatJSON
	}
	if v := q.Get("labels"); v != "" {
		labels, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid labels value %q", v))
			return
		}
		ropts.Labels = labels
	}
	if err := ropts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *session.Session, _ scroll.Event, _ time.Time) error {
		tr := sess.Tracker
		fr := sess.Result.Frame(tr.Coordinate(), tr.Spacing())
		data, _, err := s.runner.Render(r.Context(), sess.Result, fr, ropts)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", contentTypes[ropts.Format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return nil
	})
}
