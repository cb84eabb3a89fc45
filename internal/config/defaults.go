package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 5000,
			Host: "localhost",
		},
		Engine: EngineConfig{
			URL:     "http://localhost:5001",
			Timeout: "300s",
		},
		Analysis: AnalysisConfig{
			InitialCash:       100000.0,
			MarginRequirement: 0.0,
			LookbackDays:      90,
			ShowReasoning:     true,
			MaxTickers:        20,
			DefaultModel:      "gpt-4o",
			DefaultProvider:   "OpenAI",
		},
		Catalog: CatalogConfig{
			Analysts: DefaultAnalysts(),
			Models:   DefaultModels(),
		},
		Edge: EdgeConfig{
			Port:         8787,
			Host:         "localhost",
			StaticPrefix: "/static/",
			Assets:       "dir",
			AssetsDir:    "./pages/static",
			CacheTTL:     "5m",
			CacheEntries: 256,
			MetricsPort:  9787,
		},
		Storage: StorageConfig{
			Backend: "badger",
			Badger: BadgerConfig{
				Path: "./data/hedge",
			},
			Redis: RedisConfig{
				Host:   "localhost",
				Port:   6379,
				Prefix: "hedge",
			},
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}

// DefaultAnalysts returns the analysts offered when none are configured.
func DefaultAnalysts() []AnalystEntry {
	return []AnalystEntry{
		{ID: "ben_graham", Name: "Ben Graham"},
		{ID: "bill_ackman", Name: "Bill Ackman"},
		{ID: "cathie_wood", Name: "Cathie Wood"},
		{ID: "charlie_munger", Name: "Charlie Munger"},
		{ID: "michael_burry", Name: "Michael Burry"},
		{ID: "peter_lynch", Name: "Peter Lynch"},
		{ID: "phil_fisher", Name: "Phil Fisher"},
		{ID: "stanley_druckenmiller", Name: "Stanley Druckenmiller"},
		{ID: "warren_buffett", Name: "Warren Buffett"},
		{ID: "technical_analyst", Name: "Technical Analyst"},
		{ID: "fundamentals_analyst", Name: "Fundamentals Analyst"},
		{ID: "sentiment_analyst", Name: "Sentiment Analyst"},
		{ID: "valuation_analyst", Name: "Valuation Analyst"},
	}
}

// DefaultModels returns the models offered when none are configured.
func DefaultModels() []ModelEntry {
	return []ModelEntry{
		{ID: "gpt-4o", Name: "[openai] gpt-4o", Provider: "OpenAI"},
		{ID: "gpt-4o-mini", Name: "[openai] gpt-4o-mini", Provider: "OpenAI"},
		{ID: "o3-mini", Name: "[openai] o3-mini", Provider: "OpenAI"},
		{ID: "claude-3-5-sonnet-latest", Name: "[anthropic] claude-3.5-sonnet", Provider: "Anthropic"},
		{ID: "deepseek-chat", Name: "[deepseek] deepseek-v3", Provider: "DeepSeek"},
		{ID: "gemini-2.0-flash", Name: "[gemini] gemini-2.0-flash", Provider: "Gemini"},
		{ID: "llama-3.3-70b-versatile", Name: "[groq] llama-3.3 70b", Provider: "Groq"},
	}
}
