package server

import (
	"net/http"

	"github.com/matzehuels/bubblerow/pkg/buildinfo"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/lineup"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
)

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Entities int    `json:"entities"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  buildinfo.Version,
		Entities: len(s.entities),
		Sessions: s.store.Len(),
	})
}

type metricInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	out := make([]metricInfo, 0, len(entity.Metrics))
	for _, m := range entity.Metrics {
		out = append(out, metricInfo{Name: string(m), Label: m.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Recorder.Stats())
}

type layoutResponse struct {
	lineup.Snapshot
	// SortingOffsets move each item from its input slot to its sorted slot.
	SortingOffsets map[int]float64 `json:"sorting_offsets"`
	CacheHit       bool            `json:"cache_hit"`
	LayoutHash     string          `json:"layout_hash"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Options
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.layoutOptions(req)
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
	writeJSON(w, http.StatusOK, layoutResponse{
		Snapshot:       res.Snapshot(),
		SortingOffsets: res.Layout.SortingOffsets(s.opts.Tracker.Spacing),
		CacheHit:       res.CacheHit,
		LayoutHash:     res.LayoutHash,
	})
}

// layoutOptions fills unset request fields from the server's base options.
// Data paths never come from requests.
func (s *Server) layoutOptions(req pipeline.Options) pipeline.Options {
	base := s.opts.Layout
	opts := pipeline.Options{
		Metric:           req.Metric,
		PreviousCentered: req.PreviousCentered,
		Reference:        req.Reference,
		GapRatio:         req.GapRatio,
		FixedGap:         req.FixedGap,
		Refresh:          req.Refresh,
		Entities:         req.Entities,
		Logger:           s.logger,
	}
	if opts.Metric == "" {
		opts.Metric = base.Metric
	}
	if opts.Reference == nil {
		opts.Reference = base.Reference
	}
	if opts.GapRatio == 0 {
		opts.GapRatio = base.GapRatio
	}
	if opts.FixedGap == 0 {
		opts.FixedGap = base.FixedGap
	}
	return opts
}

func (s *Server) loadEntities(opts pipeline.Options) ([]entity.Entity, error) {
	if len(opts.Entities) == 0 {
		return s.entities, nil
	}
	return pipeline.Load(opts)
}
