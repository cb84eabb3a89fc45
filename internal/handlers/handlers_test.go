package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bobmcallan/hedge-portal/internal/analysis"
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
	"github.com/bobmcallan/hedge-portal/pages"
)

type stubAnalyzer struct {
	result *models.AnalysisResult
	err    error
	got    models.AnalysisRequest
}

func (s *stubAnalyzer) Analyze(_ context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	s.got = req
	return s.result, s.err
}

type stubEngine struct{ err error }

func (s stubEngine) Health(context.Context) error { return s.err }

func (s stubEngine) Version(context.Context) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]string{"version": "2.0.0"}, nil
}

func testResult(t *testing.T) *models.AnalysisResult {
	t.Helper()
	var result models.AnalysisResult
	raw := `{"portfolio": {"cash": 95000, "total_value": 101250.5, "positions": {
		"MSFT": {"shares": 10, "entry_price": 400, "current_price": 425, "unrealized_pnl_percent": 6.25, "signal": "BUY"}
	}}}`
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	return &result
}

func newAnalyzeHandler(t *testing.T, a view.Analyzer) *AnalyzeHandler {
	t.Helper()
	renderer, err := view.NewRenderer(pages.FS)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return NewAnalyzeHandler(common.NewSilentLogger(), a, renderer)
}

func newPageHandler(t *testing.T) *PageHandler {
	t.Helper()
	cfg := config.NewDefaultConfig()
	h, err := NewPageHandler(common.NewSilentLogger(), pages.FS, cfg.BuildCatalog(), cfg.Analysis, false)
	if err != nil {
		t.Fatalf("NewPageHandler failed: %v", err)
	}
	return h
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
	if _, ok := body["engine"]; ok {
		t.Error("engine status must be omitted without a checker")
	}
}

func TestHealthHandler_EngineStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"up", nil, "ok"},
		{"down", errors.New("connection refused"), "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(common.NewSilentLogger(), stubEngine{err: tt.err})

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

			if w.Code != http.StatusOK {
				t.Errorf("portal health must stay 200, got %d", w.Code)
			}
			var body map[string]string
			json.Unmarshal(w.Body.Bytes(), &body)
			if body["engine"] != tt.want {
				t.Errorf("expected engine %s, got %s", tt.want, body["engine"])
			}
		})
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	handler := NewVersionHandler(nil, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, key := range []string{"version", "build", "git_commit"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %s in response", key)
		}
	}
}

func TestVersionHandler_EngineVersion(t *testing.T) {
	w := httptest.NewRecorder()
	NewVersionHandler(nil, stubEngine{}).ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["engine_version"] != "2.0.0" {
		t.Errorf("expected engine_version 2.0.0, got %q", body["engine_version"])
	}

	w = httptest.NewRecorder()
	NewVersionHandler(nil, stubEngine{err: errors.New("down")}).ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))
	if strings.Contains(w.Body.String(), "engine_version") {
		t.Errorf("engine_version should be omitted when the engine is down: %s", w.Body.String())
	}
}

func TestCatalogHandler(t *testing.T) {
	catalog := models.Catalog{
		Analysts: []models.Analyst{{ID: "warren_buffett", Name: "Warren Buffett"}},
		Models:   []models.Model{{ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI"}},
	}
	handler := NewCatalogHandler(catalog)

	w := httptest.NewRecorder()
	handler.HandleAnalysts(w, httptest.NewRequest("GET", "/api/analysts", nil))
	var analysts []models.Analyst
	if err := json.Unmarshal(w.Body.Bytes(), &analysts); err != nil {
		t.Fatalf("failed to unmarshal analysts: %v", err)
	}
	if len(analysts) != 1 || analysts[0].ID != "warren_buffett" {
		t.Errorf("unexpected analysts %+v", analysts)
	}

	w = httptest.NewRecorder()
	handler.HandleModels(w, httptest.NewRequest("GET", "/api/models", nil))
	var ms []models.Model
	if err := json.Unmarshal(w.Body.Bytes(), &ms); err != nil {
		t.Fatalf("failed to unmarshal models: %v", err)
	}
	if len(ms) != 1 || ms[0].Provider != "OpenAI" {
		t.Errorf("unexpected models %+v", ms)
	}

	w = httptest.NewRecorder()
	handler.HandleModels(w, httptest.NewRequest("DELETE", "/api/models", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestPageHandler_Index(t *testing.T) {
	h := newPageHandler(t)

	w := httptest.NewRecorder()
	h.ServeIndex(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}

	for _, id := range []string{"analysis-form", "tickers", "model", "provider", "loading-indicator", "results-container", "error-container", "error-message"} {
		if doc.Find("#"+id).Length() != 1 {
			t.Errorf("expected element #%s", id)
		}
	}

	boxes := doc.Find(`input[type="checkbox"][name="analysts"]`)
	if boxes.Length() != len(config.DefaultAnalysts()) {
		t.Errorf("expected %d analyst checkboxes, got %d", len(config.DefaultAnalysts()), boxes.Length())
	}
	if v, _ := doc.Find("#model option[selected]").Attr("value"); v != "gpt-4o" {
		t.Errorf("expected gpt-4o selected, got %q", v)
	}
	if v, _ := doc.Find("#provider option[selected]").Attr("value"); v != "OpenAI" {
		t.Errorf("expected OpenAI selected, got %q", v)
	}
	for _, id := range []string{"loading-indicator", "results-container", "error-container"} {
		if style, _ := doc.Find("#" + id).Attr("style"); !strings.Contains(style, "display: none") {
			t.Errorf("expected #%s hidden on load, got style %q", id, style)
		}
	}
}

func TestPageHandler_DevBanner(t *testing.T) {
	cfg := config.NewDefaultConfig()
	dev, err := NewPageHandler(common.NewSilentLogger(), pages.FS, cfg.BuildCatalog(), cfg.Analysis, true)
	if err != nil {
		t.Fatalf("NewPageHandler failed: %v", err)
	}

	tests := []struct {
		name string
		h    *PageHandler
		want int
	}{
		{"dev", dev, 1},
		{"prod", newPageHandler(t), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.h.ServeIndex(w, httptest.NewRequest("GET", "/", nil))

			doc, err := goquery.NewDocumentFromReader(w.Body)
			if err != nil {
				t.Fatalf("failed to parse page: %v", err)
			}
			if got := doc.Find("#dev-banner").Length(); got != tt.want {
				t.Errorf("expected %d dev banners, got %d", tt.want, got)
			}
		})
	}
}

func TestPageHandler_UnknownPath(t *testing.T) {
	h := newPageHandler(t)

	w := httptest.NewRecorder()
	h.ServeIndex(w, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestPageHandler_Static(t *testing.T) {
	h := newPageHandler(t)

	tests := []struct {
		path string
		code int
		ct   string
	}{
		{"/static/css/app.css", http.StatusOK, "text/css"},
		{"/static/js/app.js", http.StatusOK, "javascript"},
		{"/static/css/", http.StatusNotFound, ""},
		{"/static/missing.png", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.StaticFileHandler(w, httptest.NewRequest("GET", tt.path, nil))

		if w.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.code, w.Code)
		}
		if tt.ct != "" && !strings.Contains(w.Header().Get("Content-Type"), tt.ct) {
			t.Errorf("%s: expected content type containing %q, got %q", tt.path, tt.ct, w.Header().Get("Content-Type"))
		}
	}
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandleAnalyze_Success(t *testing.T) {
	stub := &stubAnalyzer{result: testResult(t)}
	h := newAnalyzeHandler(t, stub)

	w := postJSON(h.HandleAnalyze, `{"tickers": "MSFT", "analysts": ["warren_buffett"], "model": "gpt-4o", "provider": "OpenAI"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp models.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Errorf("unexpected envelope %+v", resp)
	}
	if resp.Result.Portfolio.TotalValue != 101250.5 {
		t.Errorf("unexpected total value %v", resp.Result.Portfolio.TotalValue)
	}
	if stub.got.Tickers != "MSFT" || len(stub.got.Analysts) != 1 {
		t.Errorf("analyzer received %+v", stub.got)
	}
}

func TestHandleAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		code    int
		message string
	}{
		{"application error", `{"tickers": "AAPL"}`, analysis.NewApplicationError("Model not available"), http.StatusOK, "Model not available"},
		{"network error", `{"tickers": "AAPL"}`, fmt.Errorf("%w: timeout", analysis.ErrNetwork), http.StatusOK, "analysis engine unreachable: timeout"},
		{"validation error", `{"tickers": ""}`, &analysis.ValidationError{Fields: []string{"Tickers"}}, http.StatusBadRequest, ""},
		{"malformed body", `{"tickers":`, nil, http.StatusBadRequest, ""},
		{"trailing data", `{"tickers": "AAPL"} {}`, nil, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAnalyzeHandler(t, &stubAnalyzer{err: tt.err})

			w := postJSON(h.HandleAnalyze, tt.body)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}

			var resp models.AnalyzeResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if resp.Success {
				t.Error("expected success=false")
			}
			if resp.Result != nil {
				t.Error("failed response must not carry a result")
			}
			if tt.message != "" && resp.Error != tt.message {
				t.Errorf("expected error %q, got %q", tt.message, resp.Error)
			}
		})
	}
}

func TestHandleAnalyze_RejectsGET(t *testing.T) {
	h := newAnalyzeHandler(t, &stubAnalyzer{})

	w := httptest.NewRecorder()
	h.HandleAnalyze(w, httptest.NewRequest("GET", "/api/analyze", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func postForm(h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/results", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandleResults_Displayed(t *testing.T) {
	stub := &stubAnalyzer{result: testResult(t)}
	h := newAnalyzeHandler(t, stub)

	form := url.Values{"tickers": {"MSFT"}, "analysts": {"warren_buffett", "ben_graham"}, "model": {"gpt-4o"}}
	w := postForm(h.HandleResults, form)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML, got %s", ct)
	}
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}
	if phase, _ := doc.Find("#fragment").Attr("data-phase"); phase != "displayed" {
		t.Errorf("unexpected phase %q", phase)
	}
	if got := doc.Find(".summary-total").Text(); got != "$101,250.50" {
		t.Errorf("unexpected total %q", got)
	}
	if doc.Find(".positions-table tbody tr").Length() != 1 {
		t.Error("expected one position row")
	}
	if len(stub.got.Analysts) != 2 {
		t.Errorf("expected both analysts forwarded, got %v", stub.got.Analysts)
	}
}

func TestHandleResults_Error(t *testing.T) {
	h := newAnalyzeHandler(t, &stubAnalyzer{err: analysis.NewApplicationError("")})

	w := postForm(h.HandleResults, url.Values{"tickers": {"AAPL"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}
	if phase, _ := doc.Find("#fragment").Attr("data-phase"); phase != "error" {
		t.Errorf("unexpected phase %q", phase)
	}
	if got := doc.Find(".error-text").Text(); got != "An unknown error occurred" {
		t.Errorf("unexpected error text %q", got)
	}
}

func TestHandleResults_BadForm(t *testing.T) {
	h := newAnalyzeHandler(t, &stubAnalyzer{})

	req := httptest.NewRequest("POST", "/results", strings.NewReader("tickers=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.HandleResults(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRequireMethod_HeadAllowedForGet(t *testing.T) {
	w := httptest.NewRecorder()
	if !RequireMethod(w, httptest.NewRequest("HEAD", "/", nil), http.MethodGet) {
		t.Error("HEAD must be accepted for GET handlers")
	}

	w = httptest.NewRecorder()
	if RequireMethod(w, httptest.NewRequest("PUT", "/", nil), http.MethodPost) {
		t.Error("PUT must be rejected for POST handlers")
	}
	if w.Header().Get("Allow") != http.MethodPost {
		t.Errorf("expected Allow header, got %q", w.Header().Get("Allow"))
	}
}
