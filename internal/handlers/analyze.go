package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/hedge-portal/internal/analysis"
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
)

// AnalyzeHandler serves the JSON analysis API and the HTML results fragment.
type AnalyzeHandler struct {
	logger   *common.Logger
	analyzer view.Analyzer
	renderer *view.Renderer
}

// NewAnalyzeHandler creates an analyze handler.
func NewAnalyzeHandler(logger *common.Logger, analyzer view.Analyzer, renderer *view.Renderer) *AnalyzeHandler {
	return &AnalyzeHandler{logger: logger, analyzer: analyzer, renderer: renderer}
}

// HandleAnalyze handles POST /api/analyze.
// Engine failures are reported as 200 {success:false}; bad input is 400.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AnalysisRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteJSON(w, http.StatusBadRequest, models.AnalyzeResponse{Error: err.Error()})
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := http.StatusOK
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}
		WriteJSON(w, status, models.AnalyzeResponse{Error: analysis.UserMessage(err)})
		return
	}

	WriteJSON(w, http.StatusOK, models.AnalyzeResponse{Success: true, Result: result})
}

// HandleResults handles POST /results: the form is submitted, the page
// state is rendered as an HTML fragment for the browser script to apply.
func (h *AnalyzeHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	req, err := view.ParseForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	submitter := view.NewSubmitter(h.analyzer)
	if h.logger != nil {
		submitter.SetObserver(func(state view.PageState) {
			h.logger.Debug().Str("phase", state.Phase.String()).Bool("loading", state.LoadingVisible).Msg("submission state")
		})
	}
	state := submitter.Submit(r.Context(), req)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderFragment(w, state); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("error", err.Error()).Msg("failed to render results fragment")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
