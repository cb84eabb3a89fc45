// Package models defines the data exchanged between the portal, the analysis
// engine, and the browser.
package models

import (
	"encoding/json"
	"strings"
)

// AnalysisRequest is the form state captured at submission time.
type AnalysisRequest struct {
	Tickers  string   `json:"tickers" validate:"required"`
	Analysts []string `json:"analysts" validate:"dive,required"`
	Model    string   `json:"model" default:"gpt-4o"`
	Provider string   `json:"provider" default:"OpenAI"`
}

// TickerList splits the free-text tickers on commas, trimming whitespace,
// upper-casing, and dropping empty entries.
func (r AnalysisRequest) TickerList() []string {
	var tickers []string
	for _, t := range strings.Split(r.Tickers, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// AnalysisResult is the result payload of a successful analysis.
// Decisions and AnalystSignals are passed through untouched.
type AnalysisResult struct {
	Portfolio      *PortfolioResult `json:"portfolio,omitempty"`
	Decisions      json.RawMessage  `json:"decisions,omitempty"`
	AnalystSignals json.RawMessage  `json:"analyst_signals,omitempty"`
}

// AnalyzeResponse is the envelope returned by POST /api/analyze.
type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Result  *AnalysisResult `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Analyst is a selectable analyst persona.
type Analyst struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Model is a selectable language model.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}
