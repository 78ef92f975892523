package types

import "time"

// Defaults applied by DefaultConfig and by components given a zero value.
const (
	DefaultBaseURL                     = "https://export.arxiv.org/api/query"
	DefaultTimeout                     = 30 * time.Second
	DefaultRateLimit                   = 1.0 / 3.0
	DefaultBurst                       = 1
	DefaultQuery                       = "all"
	DefaultBatchSize                   = 5
	DefaultRecommendationsPerCategory  = 3
	DefaultMaxRecommendationCategories = 10
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-recommender/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the arXiv fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// RateLimit is the sustained request rate in requests per second.
	// Zero or negative disables pacing.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// Burst is the number of requests allowed back to back (default 1).
	Burst int `json:"burst" yaml:"burst"`
}

// SessionConfig holds settings for one interactive session.
type SessionConfig struct {
	// Query is the search_query used for batch fetches (default "all").
	Query string `json:"query" yaml:"query"`

	// BatchSize is the number of papers requested per fetch (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// RecommendationsPerCategory is max_results for each recommendation
	// fetch (default 3).
	RecommendationsPerCategory int `json:"recommendations_per_category" yaml:"recommendations_per_category"`

	// MaxRecommendationCategories caps how many preferred categories one
	// recommendation request fetches, highest score first (default 10).
	// Each fetch waits on the pacer, so the cap bounds request latency.
	MaxRecommendationCategories int `json:"max_recommendation_categories" yaml:"max_recommendation_categories"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format"`
}

// ServerConfig holds settings for the HTTP adapter.
type ServerConfig struct {
	Address         string        `json:"address" yaml:"address"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config groups every component's configuration.
type Config struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Session SessionConfig `json:"session" yaml:"session"`
	Log     LoggingConfig `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable, or flag overrides a value.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: "paper-recommender/dev",
			},
			BaseURL:   DefaultBaseURL,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
		},
		Session: SessionConfig{
			Query:                       DefaultQuery,
			BatchSize:                   DefaultBatchSize,
			RecommendationsPerCategory:  DefaultRecommendationsPerCategory,
			MaxRecommendationCategories: DefaultMaxRecommendationCategories,
		},
		Log: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// WithDefaults returns c with zero fields replaced by their defaults.
func (c SessionConfig) WithDefaults() SessionConfig {
	if c.Query == "" {
		c.Query = DefaultQuery
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RecommendationsPerCategory <= 0 {
		c.RecommendationsPerCategory = DefaultRecommendationsPerCategory
	}
	if c.MaxRecommendationCategories <= 0 {
		c.MaxRecommendationCategories = DefaultMaxRecommendationCategories
	}
	return c
}
