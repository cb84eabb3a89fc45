// Package app wires configuration, storage, the analysis engine and the HTTP
// handlers into the portal and edge applications.
package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/hedge-portal/internal/analysis"
	"github.com/bobmcallan/hedge-portal/internal/client"
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/handlers"
	"github.com/bobmcallan/hedge-portal/internal/mcp"
	"github.com/bobmcallan/hedge-portal/internal/metrics"
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
	"github.com/bobmcallan/hedge-portal/pages"
)

// App holds all portal components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Catalog models.Catalog

	Engine   *client.EngineClient
	Analysis *analysis.Service
	Renderer *view.Renderer
	Metrics  *metrics.Recorder // nil when metrics are disabled

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	CatalogHandler *handlers.CatalogHandler
	AnalyzeHandler *handlers.AnalyzeHandler
	MCPHandler     *mcp.Handler // nil when MCP is disabled
}

// New initializes the portal with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: cfg.BuildCatalog(),
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE: the index page carries a development banner, do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New("hedge_portal")
	}

	a.Engine = client.NewEngineClient(cfg.Engine.URL, cfg.Engine.GetTimeout())
	a.Analysis = analysis.NewService(a.Engine, cfg.Analysis, logger)
	if a.Metrics != nil {
		a.Analysis.SetObserver(a.Metrics)
	}

	renderer, err := view.NewRenderer(pages.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragment templates: %w", err)
	}
	a.Renderer = renderer

	if err := a.initHandlers(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("engine_url", a.Engine.BaseURL()).
		Int("analysts", len(a.Catalog.Analysts)).
		Int("models", len(a.Catalog.Models)).
		Bool("metrics", a.Metrics != nil).
		Bool("mcp", a.MCPHandler != nil).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() error {
	pageHandler, err := handlers.NewPageHandler(a.Logger, pages.FS, a.Catalog, a.Config.Analysis, a.Config.IsDevMode())
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}
	a.PageHandler = pageHandler

	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Engine)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger, a.Engine)
	a.CatalogHandler = handlers.NewCatalogHandler(a.Catalog)
	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.Logger, a.Analysis, a.Renderer)

	if a.Config.MCP.Enabled {
		a.MCPHandler = mcp.NewHandler(a.Analysis, a.Catalog, a.Engine, a.Logger)
	}

	a.Logger.Debug().Msg("HTTP handlers initialized")
	return nil
}
