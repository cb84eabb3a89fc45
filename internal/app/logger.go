package app

import (
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
)

// NewLogger creates an arbor logger from the logging section of cfg.
func NewLogger(cfg *config.Config) *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    cfg.Logging.Outputs,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
