package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/common"
)

// engineHealthTimeout bounds the engine check made by each health request.
const engineHealthTimeout = 3 * time.Second

// EngineChecker checks the analysis engine. *client.EngineClient satisfies it.
type EngineChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	engine EngineChecker
}

// NewHealthHandler creates a new health handler. engine may be nil, in which
// case only the portal itself is reported.
func NewHealthHandler(logger *common.Logger, engine EngineChecker) *HealthHandler {
	return &HealthHandler{logger: logger, engine: engine}
}

// ServeHTTP handles GET /api/health. The portal answers 200 while it is up;
// the engine status is informational.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	body := map[string]string{"status": "ok"}

	if h.engine != nil {
		ctx, cancel := context.WithTimeout(r.Context(), engineHealthTimeout)
		defer cancel()

		body["engine"] = "ok"
		if err := h.engine.Health(ctx); err != nil {
			body["engine"] = "down"
			if h.logger != nil {
				h.logger.Debug().Err(err).Msg("engine health check failed")
			}
		}
	}

	WriteJSON(w, http.StatusOK, body)
}
