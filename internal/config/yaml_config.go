package config

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"awardmatch/internal/apperr"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// CatalogConfig represents the structure of a catalog file.
// Award definitions are hierarchical, so they live in YAML rather than env vars.
type CatalogConfig struct {
	Awards []AwardConfig `yaml:"awards"`
}

// AwardConfig defines an award category in the catalog file.
type AwardConfig struct {
	Key      string            `yaml:"key"`
	Name     string            `yaml:"name"`
	Keywords []string          `yaml:"keywords,omitempty"` // Used by criteria without their own
	Criteria []CriterionConfig `yaml:"criteria"`
}

// CriterionConfig defines a criterion of an award.
type CriterionConfig struct {
	Text     string   `yaml:"text"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// EffectiveKeywords returns the criterion's keywords, falling back to the award's.
func (a *AwardConfig) EffectiveKeywords(c CriterionConfig) []string {
	if len(c.Keywords) > 0 {
		return c.Keywords
	}
	return a.Keywords
}

// LoadCatalogConfig loads award definitions from path. An empty path
// returns the built-in catalog.
func LoadCatalogConfig(path string) (*CatalogConfig, error) {
	if path == "" {
		return DefaultCatalogConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "read catalog file %s", path)
	}
	return ParseCatalogConfig(data)
}

// DefaultCatalogConfig returns the built-in award catalog.
func DefaultCatalogConfig() (*CatalogConfig, error) {
	return ParseCatalogConfig(defaultCatalog)
}

// ParseCatalogConfig decodes catalog YAML.
func ParseCatalogConfig(data []byte) (*CatalogConfig, error) {
	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "parse catalog")
	}
	if len(cfg.Awards) == 0 {
		return nil, apperr.Config("catalog defines no awards")
	}
	return &cfg, nil
}

// GetAwardByKey finds an award definition by its key.
func (c *CatalogConfig) GetAwardByKey(key string) *AwardConfig {
	if c == nil {
		return nil
	}
	for i := range c.Awards {
		if c.Awards[i].Key == key {
			return &c.Awards[i]
		}
	}
	return nil
}
