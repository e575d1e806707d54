package model

import "time"

// Config holds the complete factcheck configuration.
// Field tags double as viper keys and YAML keys for `config show|init`.
type Config struct {
	Client       ClientConfig       `yaml:"client" mapstructure:"client"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// ClientConfig configures the fact-check client used by `check` and `tui`
type ClientConfig struct {
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"` // Base address, /fact-check is appended
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`   // 0 means transport default
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	LogFile    string        `yaml:"log_file,omitempty" mapstructure:"log_file"` // TUI diagnostics
}

// ServerConfig configures `factcheck serve`
type ServerConfig struct {
	Addr         string   `yaml:"addr" mapstructure:"addr"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LLMConfig configures the claim extraction / verdict provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // perplexity, openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig configures verdict caching on the server
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Type     string        `yaml:"type" mapstructure:"type"` // memory, disk, layered, redis
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	RedisURL string        `yaml:"redis_url,omitempty" mapstructure:"redis_url"`
}

// ConcurrencyConfig bounds parallel claim checks
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles calls to the LLM provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls how results are printed by `check`
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, markdown, json, html
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Endpoint:  "http://localhost:5000",
			UserAgent: "factcheck/0.1 (+https://github.com/ppiankov/factcheck)",
		},
		Server: ServerConfig{
			Addr:         ":5000",
			AllowOrigins: []string{"*"},
			MaxBodyBytes: 1 << 20,
		},
		LLM: LLMConfig{
			Provider:  "perplexity",
			Model:     "sonar-pro",
			Timeout:   60,
			MaxTokens: 500,
		},
		Cache: CacheConfig{
			Enabled: true,
			Type:    "memory",
			TTL:     24 * time.Hour,
			Dir:     ".factcheck-cache",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
