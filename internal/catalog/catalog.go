// Package catalog holds the immutable set of awards and criteria content is
// matched against.
package catalog

import (
	"strings"

	"awardmatch/internal/apperr"
	"awardmatch/internal/config"
	"awardmatch/internal/matching"
	"awardmatch/internal/models"
	"awardmatch/internal/validation"
)

// Catalog is the validated award catalog. It is read-only after New.
type Catalog struct {
	awards []models.AwardCategory
	index  map[string]int
}

// New validates the definitions and builds a catalog. Keywords are
// normalized the same way content text is.
func New(defs *config.CatalogConfig) (*Catalog, error) {
	if defs == nil || len(defs.Awards) == 0 {
		return nil, apperr.Config("catalog defines no awards")
	}

	c := &Catalog{index: make(map[string]int, len(defs.Awards))}

	for _, def := range defs.Awards {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			return nil, apperr.Config("award %q has an empty key", def.Name)
		}
		if valid, _ := validation.ValidateAwardKey(key); !valid {
			return nil, apperr.Config("award key %q must contain only lowercase letters, digits, hyphens and underscores", key)
		}
		if _, dup := c.index[key]; dup {
			return nil, apperr.Config("duplicate award key %q", key)
		}
		if len(def.Criteria) == 0 {
			return nil, apperr.Config("award %q has no criteria", key)
		}

		name := strings.TrimSpace(def.Name)
		if name == "" {
			name = key
		}
		award := models.AwardCategory{Key: key, Name: name, Criteria: make([]models.Criterion, 0, len(def.Criteria))}

		seen := make(map[string]bool, len(def.Criteria))
		for _, cdef := range def.Criteria {
			text := strings.TrimSpace(cdef.Text)
			if text == "" {
				return nil, apperr.Config("award %q has a criterion with empty text", key)
			}
			if seen[text] {
				return nil, apperr.Config("award %q declares criterion %q twice", key, text)
			}
			seen[text] = true

			keywords := matching.NormalizeKeywords(def.EffectiveKeywords(cdef))
			if len(keywords) == 0 {
				return nil, apperr.Config("criterion %q of award %q has no keywords", text, key)
			}
			award.Criteria = append(award.Criteria, models.Criterion{AwardKey: key, Text: text, Keywords: keywords})
		}

		c.index[key] = len(c.awards)
		c.awards = append(c.awards, award)
	}
	return c, nil
}

// Load reads definitions from path, or the built-in catalog when path is
// empty, and builds a catalog.
func Load(path string) (*Catalog, error) {
	defs, err := config.LoadCatalogConfig(path)
	if err != nil {
		return nil, err
	}
	return New(defs)
}

// Awards returns the award categories in declaration order.
func (c *Catalog) Awards() []models.AwardCategory {
	out := make([]models.AwardCategory, len(c.awards))
	copy(out, c.awards)
	return out
}

// Keys returns the award keys in declaration order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.awards))
	for i, a := range c.awards {
		out[i] = a.Key
	}
	return out
}

// Award looks up an award by key.
func (c *Catalog) Award(key string) (models.AwardCategory, bool) {
	i, ok := c.index[key]
	if !ok {
		return models.AwardCategory{}, false
	}
	return c.awards[i], true
}

// CriteriaOf returns the ordered criteria of an award, or NotFound.
func (c *Catalog) CriteriaOf(key string) ([]models.Criterion, error) {
	award, ok := c.Award(key)
	if !ok {
		return nil, apperr.NotFound("unknown award %q", key)
	}
	out := make([]models.Criterion, len(award.Criteria))
	copy(out, award.Criteria)
	return out, nil
}

// Criterion looks up one criterion of an award.
func (c *Catalog) Criterion(awardKey, text string) (models.Criterion, bool) {
	award, ok := c.Award(awardKey)
	if !ok {
		return models.Criterion{}, false
	}
	for _, cr := range award.Criteria {
		if cr.Text == text {
			return cr, true
		}
	}
	return models.Criterion{}, false
}

// CriterionKeys returns every criterion key in catalog order.
func (c *Catalog) CriterionKeys() []models.CriterionKey {
	var out []models.CriterionKey
	for _, a := range c.awards {
		for _, cr := range a.Criteria {
			out = append(out, models.CriterionKey{AwardKey: a.Key, CriterionText: cr.Text})
		}
	}
	return out
}

// Size returns the total number of criteria.
func (c *Catalog) Size() int {
	n := 0
	for _, a := range c.awards {
		n += len(a.Criteria)
	}
	return n
}
