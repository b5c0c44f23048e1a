package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Configuration
// =============================================================================

// Config is the top-level savant configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Recommend RecommendConfig `yaml:"recommend"`
	Usage     UsageConfig     `yaml:"usage"`
}

// CatalogConfig configures skill catalog loading.
type CatalogConfig struct {
	// Dir is the skills directory to load YAML descriptors from.
	Dir string `yaml:"dir"`

	// Strict fails loading on any malformed skill file.
	Strict bool `yaml:"strict"`

	// Watch reloads the catalog when skill files change.
	Watch bool `yaml:"watch"`
}

// RecommendConfig configures the recommendation pass.
type RecommendConfig struct {
	RankingMethod      string `yaml:"ranking_method"`
	TopK               int    `yaml:"top_k"`
	MaxRecommendations int    `yaml:"max_recommendations"`
	MaxAlternatives    int    `yaml:"max_alternatives"`
	MaxChains          int    `yaml:"max_chains"`
}

// UsageConfig configures the usage history store.
type UsageConfig struct {
	// Path is the sqlite database file. Empty disables usage tracking.
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Dir: "skills",
		},
		Recommend: RecommendConfig{
			RankingMethod:      "balanced",
			TopK:               10,
			MaxRecommendations: 5,
			MaxAlternatives:    5,
			MaxChains:          3,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Merge(&overlay)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other.Catalog.Dir != "" {
		c.Catalog.Dir = other.Catalog.Dir
	}
	if other.Catalog.Strict {
		c.Catalog.Strict = true
	}
	if other.Catalog.Watch {
		c.Catalog.Watch = true
	}
	if other.Recommend.RankingMethod != "" {
		c.Recommend.RankingMethod = other.Recommend.RankingMethod
	}
	if other.Recommend.TopK > 0 {
		c.Recommend.TopK = other.Recommend.TopK
	}
	if other.Recommend.MaxRecommendations > 0 {
		c.Recommend.MaxRecommendations = other.Recommend.MaxRecommendations
	}
	if other.Recommend.MaxAlternatives > 0 {
		c.Recommend.MaxAlternatives = other.Recommend.MaxAlternatives
	}
	if other.Recommend.MaxChains > 0 {
		c.Recommend.MaxChains = other.Recommend.MaxChains
	}
	if other.Usage.Path != "" {
		c.Usage.Path = other.Usage.Path
	}
}

// Validate checks configured values.
func (c *Config) Validate() error {
	if c.Recommend.TopK < 1 {
		return fmt.Errorf("recommend.top_k must be at least 1")
	}
	if c.Recommend.MaxRecommendations < 1 {
		return fmt.Errorf("recommend.max_recommendations must be at least 1")
	}
	if c.Recommend.MaxAlternatives < 1 {
		return fmt.Errorf("recommend.max_alternatives must be at least 1")
	}
	return nil
}
