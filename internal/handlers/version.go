package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
)

// EngineVersioner reports the analysis engine's version fields.
type EngineVersioner interface {
	Version(ctx context.Context) (map[string]string, error)
}

// VersionHandler reports the portal build and, when reachable, the engine version.
type VersionHandler struct {
	logger *common.Logger
	engine EngineVersioner
}

// NewVersionHandler creates a version handler. engine may be nil.
func NewVersionHandler(logger *common.Logger, engine EngineVersioner) *VersionHandler {
	return &VersionHandler{logger: logger, engine: engine}
}

// ServeHTTP handles GET /api/version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	body := map[string]string{
		"version":    config.GetVersion(),
		"build":      config.GetBuild(),
		"git_commit": config.GetGitCommit(),
	}

	if h.engine != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if info, err := h.engine.Version(ctx); err == nil && info["version"] != "" {
			body["engine_version"] = info["version"]
		} else if err != nil && h.logger != nil {
			h.logger.Debug().Err(err).Msg("engine version unavailable")
		}
	}

	WriteJSON(w, http.StatusOK, body)
}
