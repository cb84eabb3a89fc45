package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/app"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/server"
)

const configName = "hedge-edge.toml"

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	edgePort    = flag.Int("port", 0, "Edge port (overrides config)")
	edgeHost    = flag.String("host", "", "Edge host (overrides config)")
	syncAssets  = flag.String("sync-assets", "", "Upload the files under this directory into the asset bucket and exit")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("hedge-edge %s\n", config.GetFullVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if path, ok := config.Discover(configName); ok {
			configFiles = append(configFiles, path)
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	config.ApplyEdgeFlagOverrides(cfg, *edgePort, *edgeHost)

	if issues := cfg.ValidateEdge(); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration error:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	edge, err := app.NewEdge(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize edge")
		os.Exit(1)
	}
	defer edge.Close()

	if *syncAssets != "" {
		n, err := edge.SyncAssets(context.Background(), *syncAssets)
		if err != nil {
			logger.Error().Err(err).Str("dir", *syncAssets).Msg("asset sync failed")
			edge.Close()
			os.Exit(1)
		}
		logger.Info().Int("files", n).Str("dir", *syncAssets).Msg("assets synced")
		return
	}

	srv := server.NewEdge(edge)
	metricsSrv := server.NewEdgeMetrics(edge)

	errChan := make(chan error, 2)
	go func() {
		errChan <- srv.Start()
	}()
	if metricsSrv != nil {
		go func() {
			errChan <- metricsSrv.Start()
		}()
	}

	logger.Info().
		Str("url", fmt.Sprintf("http://%s", srv.Addr())).
		Str("assets", cfg.Edge.Assets).
		Str("backend", cfg.Storage.Backend).
		Msg("edge ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info().Msg("shutdown signal received")
	case err := <-errChan:
		if err != nil {
			logger.Error().Err(err).Msg("edge server failed")
			edge.Close()
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("edge shutdown failed")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("metrics listener shutdown failed")
		}
	}

	logger.Info().Msg("edge stopped")
}
