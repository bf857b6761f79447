package model

import "time"

// Config is the full runtime configuration. Values resolve in order:
// CLI flags, PROSPECTOR_* environment variables, ~/.prospector/config.yaml,
// then these defaults.
type Config struct {
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Store        StoreConfig       `yaml:"store" mapstructure:"store"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Fetch        FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Research     ResearchConfig    `yaml:"research" mapstructure:"research"`
	Assets       AssetsConfig      `yaml:"assets" mapstructure:"assets"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StoreConfig configures the sqlite store
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HTTPConfig configures the outbound HTTP client used by the fetcher
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// FetchConfig bounds what the source fetcher collects per prospect
type FetchConfig struct {
	MaxSources    int  `yaml:"max_sources" mapstructure:"max_sources"`       // Website plus extras, hard cap
	MaxTextChars  int  `yaml:"max_text_chars" mapstructure:"max_text_chars"` // Visible-text cap per source
	RespectRobots bool `yaml:"respect_robots" mapstructure:"respect_robots"` // Honor robots.txt before fetching
}

// CacheConfig configures the fetched-page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig bounds outbound request rates per domain
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sets worker counts
type ConcurrencyConfig struct {
	Workers      int `yaml:"workers" mapstructure:"workers"`             // Batch research workers
	FetchWorkers int `yaml:"fetch_workers" mapstructure:"fetch_workers"` // Concurrent source fetches per capture
}

// LLMConfig configures the claim-extraction provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" disables
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ResearchConfig tunes profile generation
type ResearchConfig struct {
	CoverageTarget float64 `yaml:"coverage_target" mapstructure:"coverage_target"` // Sourced-claim fraction to aim for
}

// AssetsConfig configures the asset renderer
type AssetsConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	TemplatesDir string `yaml:"templates_dir" mapstructure:"templates_dir"` // Empty uses built-in templates
}

// OutputConfig controls CLI verbosity
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path: "prospector.db",
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Prospector/0.1 (+https://github.com/prospectorhq/prospector)",
			MaxBodyBytes: 2_000_000,
		},
		Fetch: FetchConfig{
			MaxSources:    3,
			MaxTextChars:  10_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.prospector/cache at startup
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			Workers:      4,
			FetchWorkers: 3,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 2000,
		},
		Research: ResearchConfig{
			CoverageTarget: 0.70,
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Output: OutputConfig{},
	}
}
