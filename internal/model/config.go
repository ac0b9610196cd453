package model

import "time"

// Config is the full runtime configuration. Loaded from
// ~/.factgate/config.yaml, FACTGATE_* environment variables, and CLI
// flags, in ascending priority.
type Config struct {
	Thresholds  ThresholdConfig   `yaml:"thresholds" mapstructure:"thresholds"`
	Citation    CitationConfig    `yaml:"citation" mapstructure:"citation"`
	CrossRef    CrossRefConfig    `yaml:"cross_reference" mapstructure:"cross_reference"`
	FactCheck   FactCheckConfig   `yaml:"fact_check" mapstructure:"fact_check"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ThresholdConfig holds the confidence thresholds. These used to be
// implicit constants scattered through the validators; they are an
// explicit structure so callers can recalibrate rejection rates.
type ThresholdConfig struct {
	Medium   float64 `yaml:"medium" mapstructure:"medium"`     // Admission floor
	High     float64 `yaml:"high" mapstructure:"high"`         // High-confidence tier
	Verified float64 `yaml:"verified" mapstructure:"verified"` // Verified tier
	Cap      float64 `yaml:"cap" mapstructure:"cap"`           // Hard ceiling, never exceeded
}

// CitationConfig tunes the fuzzy citation matcher
type CitationConfig struct {
	FuzzyThreshold   float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`     // Similarity cutoff for a match
	MinQuoteLength   int     `yaml:"min_quote_length" mapstructure:"min_quote_length"`   // Shorter quotes are rejected
	NumericTolerance float64 `yaml:"numeric_tolerance" mapstructure:"numeric_tolerance"` // Relative tolerance for number matching
}

// CrossRefConfig tunes corroboration scanning and confidence adjustment
type CrossRefConfig struct {
	MinSourcesForBoost  int     `yaml:"min_sources_for_boost" mapstructure:"min_sources_for_boost"`
	BoostPerSource      float64 `yaml:"boost_per_source" mapstructure:"boost_per_source"`
	SingleSourcePenalty float64 `yaml:"single_source_penalty" mapstructure:"single_source_penalty"`
	MinTermMatches      int     `yaml:"min_term_matches" mapstructure:"min_term_matches"` // Terms that must hit in another source
}

// FactCheckConfig configures the verification oracle stage
type FactCheckConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" = disabled
	Model             string        `yaml:"model" mapstructure:"model"`
	APIKey            string        `yaml:"-" mapstructure:"-"` // Environment only, never persisted
	BaseURL           string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per oracle call
	Workers           int           `yaml:"workers" mapstructure:"workers"` // Concurrency cap for oracle calls
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	MaxExcerptChars   int           `yaml:"max_excerpt_chars" mapstructure:"max_excerpt_chars"` // Source context sent to the oracle
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures the fact-check verdict cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch-level parallelism
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"` // Parallel batch files in `factgate batch`
}

// OutputConfig configures report emission
type OutputConfig struct {
	Verbose         bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeRejected bool `yaml:"include_rejected" mapstructure:"include_rejected"` // Carry rejected signals in the report
	PrettyJSON      bool `yaml:"pretty_json" mapstructure:"pretty_json"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			Medium:   0.70,
			High:     0.80,
			Verified: 0.90,
			Cap:      0.95,
		},
		Citation: CitationConfig{
			FuzzyThreshold:   0.85,
			MinQuoteLength:   20,
			NumericTolerance: 0.01,
		},
		CrossRef: CrossRefConfig{
			MinSourcesForBoost:  2,
			BoostPerSource:      0.05,
			SingleSourcePenalty: 0.05,
			MinTermMatches:      2,
		},
		FactCheck: FactCheckConfig{
			Provider:          "", // Disabled until configured
			Model:             "",
			Timeout:           30 * time.Second,
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             4,
			MaxExcerptChars:   4000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.factgate/cache at runtime
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			Verbose:         false,
			IncludeRejected: true,
			PrettyJSON:      true,
		},
	}
}
