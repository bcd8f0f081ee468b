package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	clamperr "github.com/jmorra/clampgen/pkg/errors"
	"github.com/jmorra/clampgen/pkg/pipeline"
	"github.com/jmorra/clampgen/pkg/render"
	"github.com/jmorra/clampgen/pkg/store"
)

// planRequest is the POST /v1/plans request body.
type planRequest struct {
	Cell     string   `json:"cell"`
	TopLayer int      `json:"top_layer,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`
}

// planResponse is the POST /v1/plans response body.
type planResponse struct {
	ID         string             `json:"id"`
	LayoutHash string             `json:"layout_hash"`
	Layout     *render.Layout     `json:"layout"`
	Artifacts  map[string][]byte  `json:"artifacts,omitempty"`
	CacheInfo  pipeline.CacheInfo `json:"cache_info"`
}

// planSummary is one entry in the GET /v1/plans response.
type planSummary struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Cell      string `json:"cell"`
	TopLayer  int    `json:"top_layer"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, clamperr.Wrap(clamperr.ErrCodeInvalidConfig, err, "decode request body"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		TechData: s.cfg.TechData,
		Cell:     req.Cell,
		TopLayer: req.TopLayer,
		Formats:  req.Formats,
		Refresh:  req.Refresh,
	})
	if err != nil {
		s.logger.Warn("plan failed", "cell", req.Cell, "err", err)
		writeError(w, err)
		return
	}

	rec := store.NewRecord(result.Layout, result.LayoutHash)
	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, clamperr.Wrap(clamperr.ErrCodeInternal, err, "archive plan"))
		return
	}

	s.logger.Info("planned cell",
		"cell", req.Cell,
		"id", rec.ID,
		"plan_hit", result.CacheInfo.PlanHit)

	writeJSON(w, http.StatusCreated, planResponse{
		ID:         rec.ID,
		LayoutHash: result.LayoutHash,
		Layout:     result.Layout,
		Artifacts:  result.Artifacts,
		CacheInfo:  result.CacheInfo,
	})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, clamperr.New(clamperr.ErrCodeInvalidConfig, "invalid limit %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]planSummary, len(recs))
	for i, rec := range recs {
		out[i] = planSummary{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Cell:      rec.Cell,
			TopLayer:  rec.TopLayer,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), rec.Layout, pipeline.Options{
		TechData: s.cfg.TechData,
		Cell:     rec.Cell,
		Formats:  []string{format},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
