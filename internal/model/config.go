package model

import "time"

// Config is the complete Aletheia configuration.
// Field tags serve both yaml.v3 (config show/init) and viper's decoder.
type Config struct {
	API          APIConfig         `yaml:"api" mapstructure:"api"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// APIConfig points at the analysis service
type APIConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Mode         string `yaml:"mode" mapstructure:"mode"`                   // normal or journalist
	ArticleLimit int    `yaml:"article_limit" mapstructure:"article_limit"` // capped at MaxArticles
}

// HTTPConfig controls the HTTP transport
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"` // Reports can take minutes
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
}

// CacheConfig controls the trending-articles cache
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	ArticlesTTL time.Duration `yaml:"articles_ttl" mapstructure:"articles_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles batch requests against the analysis service
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool `yaml:"-" mapstructure:"-"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultBaseURL is the local development address of the analysis service
const DefaultBaseURL = "http://localhost:8000"

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      DefaultBaseURL,
			Mode:         string(ModeNormal),
			ArticleLimit: MaxArticles,
		},
		HTTP: HTTPConfig{
			Timeout:      5 * time.Minute,
			UserAgent:    "Aletheia/0.1 (+https://github.com/ppiankov/aletheia)",
			MaxBodyBytes: 4_000_000,
		},
		Cache: CacheConfig{
			Enabled:     true,
			ArticlesTTL: 5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}
