package view

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseForm(t *testing.T) {
	form := url.Values{}
	form.Set("tickers", " AAPL, msft ")
	form.Add("analysts", "warren_buffett")
	form.Add("analysts", " ")
	form.Add("analysts", "cathie_wood")
	form.Set("model", " gpt-4o ")
	form.Set("provider", "OpenAI")

	r := httptest.NewRequest(http.MethodPost, "/results", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, err := ParseForm(r)
	if err != nil {
		t.Fatalf("ParseForm failed: %v", err)
	}
	if req.Tickers != " AAPL, msft " {
		t.Errorf("tickers must be passed through as free text, got %q", req.Tickers)
	}
	if len(req.Analysts) != 2 || req.Analysts[0] != "warren_buffett" || req.Analysts[1] != "cathie_wood" {
		t.Errorf("unexpected analysts %v", req.Analysts)
	}
	if req.Model != "gpt-4o" || req.Provider != "OpenAI" {
		t.Errorf("unexpected model/provider %q/%q", req.Model, req.Provider)
	}
}

func TestParseForm_NoAnalysts(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/results", strings.NewReader("tickers=NVDA"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, err := ParseForm(r)
	if err != nil {
		t.Fatalf("ParseForm failed: %v", err)
	}
	if req.Analysts == nil || len(req.Analysts) != 0 {
		t.Errorf("expected empty non-nil analysts, got %#v", req.Analysts)
	}
}

func TestParseForm_InvalidBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/results", strings.NewReader("tickers=%zz"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := ParseForm(r); err == nil {
		t.Error("expected error for malformed form encoding")
	}
}
