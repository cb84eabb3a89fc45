package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobmcallan/hedge-portal/internal/cache"
	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/edge"
	"github.com/bobmcallan/hedge-portal/internal/interfaces"
	"github.com/bobmcallan/hedge-portal/internal/metrics"
	"github.com/bobmcallan/hedge-portal/internal/storage"
)

// Edge holds the edge dispatcher and the storage behind it.
type Edge struct {
	Config *config.Config
	Logger *common.Logger

	Storage    interfaces.StorageManager
	Metrics    *metrics.Recorder    // nil when metrics are disabled
	AssetCache *cache.ResponseCache // nil for directory assets
	Assets     http.Handler
	Dispatcher *edge.Dispatcher
}

// NewEdge opens storage and builds the dispatcher.
func NewEdge(cfg *config.Config, logger *common.Logger) (*Edge, error) {
	store, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	e := &Edge{
		Config:  cfg,
		Logger:  logger,
		Storage: store,
	}

	if cfg.Metrics.Enabled {
		e.Metrics = metrics.New("hedge_edge")
	}

	prefix := cfg.Edge.StaticPrefix
	switch cfg.Edge.Assets {
	case "kv":
		e.AssetCache = cache.New(cfg.Edge.GetCacheTTL(), cfg.Edge.CacheEntries)
		kv := edge.NewKVAssets(prefix, store.KeyValueStorage(), e.AssetCache, logger)
		if e.Metrics != nil {
			kv.SetObserver(e.Metrics)
		}
		e.Assets = kv
	default:
		e.Assets = edge.NewDirAssets(prefix, cfg.Edge.AssetsDir)
	}

	e.Dispatcher = edge.NewDispatcher(prefix, e.Assets, store.KeyValueStorage(), logger)
	if e.Metrics != nil {
		e.Dispatcher.SetObserver(e.Metrics)
	}

	logger.Info().
		Str("backend", cfg.Storage.Backend).
		Str("assets", cfg.Edge.Assets).
		Str("static_prefix", prefix).
		Bool("metrics", e.Metrics != nil).
		Msg("edge initialization complete")

	return e, nil
}

// SyncAssets uploads every file under dir into the asset bucket and drops
// cached responses so the new content is served immediately.
func (e *Edge) SyncAssets(ctx context.Context, dir string) (int, error) {
	n, err := edge.SyncDir(ctx, e.Storage.KeyValueStorage(), dir, e.Logger)
	if e.AssetCache != nil {
		e.AssetCache.InvalidatePrefix("")
	}
	return n, err
}

// Close releases storage.
func (e *Edge) Close() error {
	if e.Storage == nil {
		return nil
	}
	return e.Storage.Close()
}
