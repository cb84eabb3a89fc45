package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// envPrefix is prepended to every environment override, e.g. HEDGE_SERVER_PORT.
const envPrefix = "HEDGE_"

// Config represents the application configuration shared by the portal and
// the edge dispatcher.
type Config struct {
	Environment string         `toml:"environment" env:"ENV"`
	Server      ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Engine      EngineConfig   `toml:"engine" envPrefix:"ENGINE_"`
	Analysis    AnalysisConfig `toml:"analysis" envPrefix:"ANALYSIS_"`
	Catalog     CatalogConfig  `toml:"catalog"`
	Edge        EdgeConfig     `toml:"edge" envPrefix:"EDGE_"`
	Storage     StorageConfig  `toml:"storage" envPrefix:"STORAGE_"`
	MCP         MCPConfig      `toml:"mcp" envPrefix:"MCP_"`
	Metrics     MetricsConfig  `toml:"metrics" envPrefix:"METRICS_"`
	Logging     LoggingConfig  `toml:"logging" envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port" env:"PORT"`
	Host string `toml:"host" env:"HOST"`
}

// EngineConfig points at the analysis engine that computes portfolio results.
type EngineConfig struct {
	URL     string `toml:"url" env:"URL"`
	Timeout string `toml:"timeout" env:"TIMEOUT"`
}

// GetTimeout parses and returns the engine request timeout.
func (c *EngineConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 300 * time.Second
	}
	return d
}

// AnalysisConfig holds the parameters of each analysis run sent to the engine.
type AnalysisConfig struct {
	InitialCash       float64 `toml:"initial_cash" env:"INITIAL_CASH"`
	MarginRequirement float64 `toml:"margin_requirement" env:"MARGIN_REQUIREMENT"`
	LookbackDays      int     `toml:"lookback_days" env:"LOOKBACK_DAYS"`
	ShowReasoning     bool    `toml:"show_reasoning" env:"SHOW_REASONING"`
	MaxTickers        int     `toml:"max_tickers" env:"MAX_TICKERS"`
	DefaultModel      string  `toml:"default_model" env:"DEFAULT_MODEL"`
	DefaultProvider   string  `toml:"default_provider" env:"DEFAULT_PROVIDER"`
}

// CatalogConfig lists the analysts and models offered on the analysis form.
type CatalogConfig struct {
	Analysts []AnalystEntry `toml:"analysts"`
	Models   []ModelEntry   `toml:"models"`
}

// AnalystEntry is one selectable analyst.
type AnalystEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// ModelEntry is one selectable language model.
type ModelEntry struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Provider string `toml:"provider"`
}

// EdgeConfig contains the edge dispatcher settings.
type EdgeConfig struct {
	Port         int    `toml:"port" env:"PORT"`
	Host         string `toml:"host" env:"HOST"`
	StaticPrefix string `toml:"static_prefix" env:"STATIC_PREFIX"`
	Assets       string `toml:"assets" env:"ASSETS"` // "dir" or "kv"
	AssetsDir    string `toml:"assets_dir" env:"ASSETS_DIR"`
	CacheTTL     string `toml:"cache_ttl" env:"CACHE_TTL"`
	CacheEntries int    `toml:"cache_entries" env:"CACHE_ENTRIES"`
	MetricsPort  int    `toml:"metrics_port" env:"METRICS_PORT"` // 0 disables the metrics listener
}

// GetCacheTTL parses and returns the asset cache TTL.
func (c *EdgeConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Backend string       `toml:"backend" env:"BACKEND"` // "badger" or "redis"
	Badger  BadgerConfig `toml:"badger" envPrefix:"BADGER_"`
	Redis   RedisConfig  `toml:"redis" envPrefix:"REDIS_"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path" env:"PATH"`
}

// RedisConfig contains Redis-specific settings.
type RedisConfig struct {
	Host     string `toml:"host" env:"HOST"`
	Port     int    `toml:"port" env:"PORT"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

// MCPConfig contains MCP endpoint settings.
type MCPConfig struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// MetricsConfig contains Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" env:"ENABLED"`
	Path    string `toml:"path" env:"PATH"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level" env:"LEVEL"`
	Outputs    []string `toml:"outputs" env:"OUTPUTS" envSeparator:","`
	FilePath   string   `toml:"file_path" env:"FILE_PATH"`
	MaxSizeMB  int      `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int      `toml:"max_backups" env:"MAX_BACKUPS"`
}

// IsDevMode reports whether the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies HEDGE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ApplyEdgeFlagOverrides applies command-line flag overrides to the edge section.
func ApplyEdgeFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Edge.Port = port
	}
	if host != "" {
		config.Edge.Host = host
	}
}

// BaseURL returns the portal's externally reachable base URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// ValidatePortal returns a list of human-readable issues with the settings
// hedge-portal needs. An empty list means the configuration is usable.
func (c *Config) ValidatePortal() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	if strings.TrimSpace(c.Engine.URL) == "" {
		issues = append(issues, "engine.url is required (HEDGE_ENGINE_URL)")
	} else if u, err := url.Parse(c.Engine.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("engine.url must be an absolute URL (got %q)", c.Engine.URL))
	}

	if c.Analysis.InitialCash < 0 {
		issues = append(issues, "analysis.initial_cash must not be negative")
	}
	if c.Analysis.LookbackDays <= 0 {
		issues = append(issues, "analysis.lookback_days must be positive")
	}

	return issues
}

// ValidateEdge returns a list of human-readable issues with the settings
// hedge-edge needs. Portal-only sections are not checked.
func (c *Config) ValidateEdge() []string {
	var issues []string

	if c.Edge.Port <= 0 || c.Edge.Port > 65535 {
		issues = append(issues, fmt.Sprintf("edge.port must be between 1 and 65535 (got %d)", c.Edge.Port))
	}
	if c.Metrics.Enabled && c.Edge.MetricsPort != 0 {
		if c.Edge.MetricsPort < 0 || c.Edge.MetricsPort > 65535 {
			issues = append(issues, fmt.Sprintf("edge.metrics_port must be between 1 and 65535 (got %d)", c.Edge.MetricsPort))
		} else if c.Edge.MetricsPort == c.Edge.Port {
			issues = append(issues, "edge.metrics_port must differ from edge.port")
		}
	}

	switch c.Storage.Backend {
	case "badger":
		if strings.TrimSpace(c.Storage.Badger.Path) == "" {
			issues = append(issues, "storage.badger.path is required for the badger backend")
		}
	case "redis":
		if strings.TrimSpace(c.Storage.Redis.Host) == "" {
			issues = append(issues, "storage.redis.host is required for the redis backend")
		}
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be \"badger\" or \"redis\" (got %q)", c.Storage.Backend))
	}

	switch c.Edge.Assets {
	case "dir", "kv":
	default:
		issues = append(issues, fmt.Sprintf("edge.assets must be \"dir\" or \"kv\" (got %q)", c.Edge.Assets))
	}
	if !strings.HasPrefix(c.Edge.StaticPrefix, "/") || !strings.HasSuffix(c.Edge.StaticPrefix, "/") {
		issues = append(issues, fmt.Sprintf("edge.static_prefix must start and end with / (got %q)", c.Edge.StaticPrefix))
	}

	return issues
}

// BuildCatalog converts the configured catalog, falling back to the built-in
// lists for any empty section.
func (c *Config) BuildCatalog() models.Catalog {
	analysts := c.Catalog.Analysts
	if len(analysts) == 0 {
		analysts = DefaultAnalysts()
	}
	entries := c.Catalog.Models
	if len(entries) == 0 {
		entries = DefaultModels()
	}

	catalog := models.Catalog{
		Analysts: make([]models.Analyst, 0, len(analysts)),
		Models:   make([]models.Model, 0, len(entries)),
	}
	for _, a := range analysts {
		catalog.Analysts = append(catalog.Analysts, models.Analyst{ID: a.ID, Name: a.Name})
	}
	for _, m := range entries {
		catalog.Models = append(catalog.Models, models.Model{ID: m.ID, Name: m.Name, Provider: m.Provider})
	}
	return catalog
}
