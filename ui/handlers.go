package ui

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"goanova/app"
	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/internal/analysis/twoway"
	"goanova/internal/report"
)

type oneWayRequest struct {
	Groups  [][]float64 `json:"groups"`
	Names   []string    `json:"names,omitempty"`
	PostHoc []string    `json:"post_hoc,omitempty"`
	Alpha   float64     `json:"alpha,omitempty"`
}

type twoWayRequest struct {
	Data        [][][]float64 `json:"data"`
	FactorAName string        `json:"factor_a_name,omitempty"`
	FactorBName string        `json:"factor_b_name,omitempty"`
	ALevelNames []string      `json:"a_level_names,omitempty"`
	BLevelNames []string      `json:"b_level_names,omitempty"`
	PostHoc     []string      `json:"post_hoc,omitempty"`
	Alpha       float64       `json:"alpha,omitempty"`
}

type postHocRequest struct {
	Groups map[string][]float64 `json:"groups"`
	Alpha  float64              `json:"alpha,omitempty"`
}

func (a *App) handleOneWay(w http.ResponseWriter, r *http.Request) {
	var req oneWayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}
	methods, err := parseMethods(req.PostHoc)
	if err != nil {
		writeError(w, err)
		return
	}

	analysis, err := a.service.RunOneWay(r.Context(), app.OneWayRequest{
		Groups:  req.Groups,
		Names:   req.Names,
		PostHoc: methods,
		Alpha:   req.Alpha,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (a *App) handleTwoWay(w http.ResponseWriter, r *http.Request) {
	var req twoWayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}
	methods, err := parseMethods(req.PostHoc)
	if err != nil {
		writeError(w, err)
		return
	}

	analysis, err := a.service.RunTwoWay(r.Context(), app.TwoWayRequest{
		Data: req.Data,
		Config: twoway.Config{
			FactorAName: req.FactorAName,
			FactorBName: req.FactorBName,
			ALevelNames: req.ALevelNames,
			BLevelNames: req.BLevelNames,
		},
		PostHoc: methods,
		Alpha:   req.Alpha,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (a *App) handlePostHoc(w http.ResponseWriter, r *http.Request) {
	method, ok := anova.ParseMethod(chi.URLParam(r, "method"))
	if !ok {
		writeError(w, core.NewValidationError("method", "unknown post-hoc method"))
		return
	}

	var req postHocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewValidationError("body", "invalid JSON: "+err.Error()))
		return
	}

	result, err := a.service.RunPostHoc(method, req.Groups, req.Alpha)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	records, err := a.runs.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, core.NewValidationError("id", err.Error()))
		return
	}
	rec, err := a.runs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *App) handleRunReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, core.NewValidationError("id", err.Error()))
		return
	}
	rec, err := a.runs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	md, err := report.BuildMarkdown(rec)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.RenderHTML(md))
}

func parseMethods(raw []string) ([]anova.Method, error) {
	methods := make([]anova.Method, 0, len(raw))
	for _, s := range raw {
		m, ok := anova.ParseMethod(s)
		if !ok {
			return nil, core.NewValidationError("post_hoc", "unknown method "+s)
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrZeroVariance):
		status = http.StatusUnprocessableEntity
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
