package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/analysis"
)

func testRun() analysis.Run {
	return analysis.Run{
		Tickers:          []string{"AAPL", "MSFT"},
		StartDate:        "2025-12-31",
		EndDate:          "2026-03-31",
		Portfolio:        analysis.RunPortfolio{Cash: 100000},
		SelectedAnalysts: []string{"warren_buffett"},
		ModelName:        "gpt-4o",
		ModelProvider:    "OpenAI",
	}
}

func TestRun_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/run" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}

		var run analysis.Run
		if err := json.NewDecoder(r.Body).Decode(&run); err != nil {
			t.Fatalf("failed to decode run: %v", err)
		}
		if len(run.Tickers) != 2 || run.ModelName != "gpt-4o" {
			t.Errorf("unexpected run payload: %+v", run)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "result": {"portfolio": {"cash": 500.5, "total_value": 1500,
			"positions": {"MSFT": {"shares": 3, "entry_price": 400, "current_price": 410, "signal": "BUY"}}}}}`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL+"/", 5*time.Second)
	result, err := c.Run(context.Background(), testRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Portfolio == nil {
		t.Fatal("expected portfolio in result")
	}
	if result.Portfolio.Cash != 500.5 {
		t.Errorf("expected cash 500.5, got %v", result.Portfolio.Cash)
	}
	pos, ok := result.Portfolio.Positions.Get("MSFT")
	if !ok {
		t.Fatal("expected MSFT position")
	}
	if pos.Signal != "BUY" {
		t.Errorf("expected BUY signal, got %s", pos.Signal)
	}
}

func TestRun_ApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "model not available"}`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, 5*time.Second)
	_, err := c.Run(context.Background(), testRun())

	var appErr *analysis.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if appErr.Message != "model not available" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestRun_ApplicationErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, 5*time.Second)
	_, err := c.Run(context.Background(), testRun())
	if err == nil || err.Error() != "An unknown error occurred" {
		t.Errorf("expected fallback message, got %v", err)
	}
}

func TestRun_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, 5*time.Second)
	_, err := c.Run(context.Background(), testRun())
	if !errors.Is(err, analysis.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestRun_HTTPErrorWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, 5*time.Second)
	_, err := c.Run(context.Background(), testRun())

	var appErr *analysis.ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if appErr.Message != "engine returned 502" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestRun_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewEngineClient(url, time.Second)
	_, err := c.Run(context.Background(), testRun())
	if !errors.Is(err, analysis.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestRun_SuccessWithoutResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, 5*time.Second)
	result, err := c.Run(context.Background(), testRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Portfolio != nil {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, time.Second)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("expected healthy engine, got %v", err)
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, time.Second)
	if err := c.Health(context.Background()); err == nil {
		t.Error("expected error for unhealthy engine")
	}
}

func TestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"version": "0.4.1", "build": "20260301", "git_commit": "abc1234"}`))
	}))
	defer srv.Close()

	c := NewEngineClient(srv.URL, time.Second)
	info, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info["version"] != "0.4.1" || info["git_commit"] != "abc1234" {
		t.Errorf("unexpected version info %v", info)
	}
}

func TestVersion_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewEngineClient(srv.URL, time.Second)
	if _, err := c.Version(context.Background()); err == nil {
		t.Error("expected error for missing version endpoint")
	}
}
