// Package analysis turns analysis requests into engine runs.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/models"
)

const dateLayout = "2006-01-02"

// RunPortfolio is the starting portfolio handed to the engine.
type RunPortfolio struct {
	Cash              float64                    `json:"cash"`
	MarginRequirement float64                    `json:"margin_requirement"`
	Positions         map[string]models.Position `json:"positions"`
}

// Run is a single analysis run as understood by the engine.
type Run struct {
	Tickers          []string     `json:"tickers"`
	StartDate        string       `json:"start_date"`
	EndDate          string       `json:"end_date"`
	Portfolio        RunPortfolio `json:"portfolio"`
	ShowReasoning    bool         `json:"show_reasoning"`
	SelectedAnalysts []string     `json:"selected_analysts"`
	ModelName        string       `json:"model_name"`
	ModelProvider    string       `json:"model_provider"`
}

// Engine executes analysis runs.
type Engine interface {
	Run(ctx context.Context, run Run) (*models.AnalysisResult, error)
}

// Observer receives analysis outcomes, e.g. for metrics.
type Observer interface {
	ObserveAnalysis(outcome string, d time.Duration)
}

// Service validates requests and dispatches them to the engine.
type Service struct {
	engine   Engine
	cfg      config.AnalysisConfig
	logger   *common.Logger
	validate *validator.Validate
	observer Observer
	now      func() time.Time
}

// NewService creates an analysis service.
func NewService(engine Engine, cfg config.AnalysisConfig, logger *common.Logger) *Service {
	return &Service{
		engine:   engine,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SetObserver registers an observer for analysis outcomes.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// SetClock replaces the time source used for the run window.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Analyze validates req, builds a run and executes it on the engine.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	start := time.Now()

	run, err := s.BuildRun(req)
	if err != nil {
		s.observe("invalid", start)
		return nil, err
	}

	s.logger.Info().
		Str("tickers", strings.Join(run.Tickers, ",")).
		Int("analysts", len(run.SelectedAnalysts)).
		Str("model", run.ModelName).
		Str("provider", run.ModelProvider).
		Msg("analysis started")

	result, err := s.engine.Run(ctx, run)
	if err != nil {
		s.logger.Warn().Str("error", err.Error()).Msg("analysis failed")
		s.observe(outcomeOf(err), start)
		return nil, err
	}
	if result == nil {
		result = &models.AnalysisResult{}
	}

	s.logger.Info().
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Int("positions", result.Portfolio.Len()).
		Msg("analysis completed")
	s.observe("success", start)
	return result, nil
}

// BuildRun applies defaults, validates req and converts it into a Run.
func (s *Service) BuildRun(req models.AnalysisRequest) (Run, error) {
	if strings.TrimSpace(req.Model) == "" {
		req.Model = s.cfg.DefaultModel
	}
	if strings.TrimSpace(req.Provider) == "" {
		req.Provider = s.cfg.DefaultProvider
	}
	if err := defaults.Set(&req); err != nil {
		return Run{}, fmt.Errorf("failed to apply request defaults: %w", err)
	}

	req.Tickers = strings.TrimSpace(req.Tickers)
	if err := s.validate.Struct(req); err != nil {
		return Run{}, newValidationError(err)
	}

	tickers := req.TickerList()
	if len(tickers) == 0 {
		return Run{}, &ValidationError{Fields: []string{"Tickers"}, msg: "tickers is required"}
	}
	if s.cfg.MaxTickers > 0 && len(tickers) > s.cfg.MaxTickers {
		return Run{}, &ValidationError{
			Fields: []string{"Tickers"},
			msg:    fmt.Sprintf("tickers must have at most %d entries", s.cfg.MaxTickers),
		}
	}

	end := s.now()
	startDate := end.AddDate(0, 0, -s.cfg.LookbackDays)

	analysts := req.Analysts
	if analysts == nil {
		analysts = []string{}
	}

	return Run{
		Tickers:   tickers,
		StartDate: startDate.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Portfolio: RunPortfolio{
			Cash:              s.cfg.InitialCash,
			MarginRequirement: s.cfg.MarginRequirement,
			Positions:         map[string]models.Position{},
		},
		ShowReasoning:    s.cfg.ShowReasoning,
		SelectedAnalysts: analysts,
		ModelName:        req.Model,
		ModelProvider:    req.Provider,
	}, nil
}

func (s *Service) observe(outcome string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveAnalysis(outcome, time.Since(start))
	}
}
