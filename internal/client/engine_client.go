package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/analysis"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/models"
)

// maxResponseSize caps engine response bodies.
const maxResponseSize = 50 << 20 // 50MB

// runPath is the engine endpoint that executes an analysis run.
const runPath = "/api/run"

// EngineClient communicates with the analysis engine REST API.
type EngineClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewEngineClient creates a new client targeting the given engine URL.
func NewEngineClient(baseURL string, timeout time.Duration) *EngineClient {
	return &EngineClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured engine URL.
func (c *EngineClient) BaseURL() string {
	return c.baseURL
}

// Run executes an analysis run on the engine.
// POST /api/run with JSON body -> { success, result, error }
func (c *EngineClient) Run(ctx context.Context, run analysis.Run) (*models.AnalysisResult, error) {
	jsonData, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+runPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", analysis.ErrNetwork, err)
	}

	var envelope models.AnalyzeResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return nil, analysis.NewApplicationError(fmt.Sprintf("engine returned %d", resp.StatusCode))
		}
		return nil, fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}

	if !envelope.Success {
		return nil, analysis.NewApplicationError(envelope.Error)
	}
	if envelope.Result == nil {
		return &models.AnalysisResult{}, nil
	}
	return envelope.Result, nil
}

// Health reports whether the engine answers GET /api/health with 200.
func (c *EngineClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", analysis.ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return errors.New("engine health returned " + resp.Status)
	}
	return nil
}

// Version fetches the engine's version information.
// GET /api/version -> {"version": ..., "build": ..., "git_commit": ...}
func (c *EngineClient) Version(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine version returned %s", resp.Status)
	}

	var info map[string]string
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}
	return info, nil
}
