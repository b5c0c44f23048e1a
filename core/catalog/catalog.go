package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// =============================================================================
// Skill Catalog
// =============================================================================
//
// The catalog holds descriptors for statistical/mathematical skills and
// answers lookups by id, category, and tag. Matching and chain building never
// operate on the live catalog; they take an immutable Snapshot so that a
// concurrent reload cannot change results mid-pass.

// Category classifies what kind of method a skill implements.
type Category string

const (
	CategoryStatisticalMethod          Category = "statistical_method"
	CategoryMathematicalImplementation Category = "mathematical_implementation"
	CategoryDataAnalysis               Category = "data_analysis"
	CategoryVisualization              Category = "visualization"
	CategoryAlgorithm                  Category = "algorithm"
)

// TypeGroup is the coarse problem-solving vs programming split. It is always
// derived from the category, never stored, so the two cannot drift apart.
type TypeGroup string

const (
	GroupProblemSolving TypeGroup = "problem_solving"
	GroupProgramming    TypeGroup = "programming"
)

// TypeGroup returns the group a category belongs to.
func (c Category) TypeGroup() TypeGroup {
	switch c {
	case CategoryStatisticalMethod, CategoryDataAnalysis, CategoryVisualization:
		return GroupProblemSolving
	default:
		return GroupProgramming
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryStatisticalMethod, CategoryMathematicalImplementation,
		CategoryDataAnalysis, CategoryVisualization, CategoryAlgorithm:
		return true
	}
	return false
}

// DataType enumerates the kinds of input data a skill accepts.
type DataType string

const (
	DataNumerical   DataType = "numerical"
	DataCategorical DataType = "categorical"
	DataTimeSeries  DataType = "time_series"
	DataText        DataType = "text"
	DataBoolean     DataType = "boolean"
	DataMixed       DataType = "mixed"
)

// Skill describes a single catalogued method. Instances are immutable once
// registered; consumers must not mutate them.
type Skill struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	Category Category `json:"category" yaml:"category"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	InputDataTypes []DataType `json:"input_data_types,omitempty" yaml:"input_data_types,omitempty"`
	OutputFormat   string     `json:"output_format,omitempty" yaml:"output_format,omitempty"`

	Description     string `json:"description" yaml:"description"`
	LongDescription string `json:"long_description,omitempty" yaml:"long_description,omitempty"`

	Dependencies  []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	UseCases      []string `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`

	StatisticalConcept string   `json:"statistical_concept,omitempty" yaml:"statistical_concept,omitempty"`
	Complexity         string   `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Assumptions        []string `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`

	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Free-form metadata carried through from skill files. No schema is
	// assumed; readers must type-assert defensively.
	CustomFields map[string]any `json:"custom_fields,omitempty" yaml:"custom_fields,omitempty"`
}

// TypeGroup returns the derived type group for the skill's category.
func (s *Skill) TypeGroup() TypeGroup {
	return s.Category.TypeGroup()
}

// HasTag reports whether the skill carries the tag (case-insensitive).
func (s *Skill) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SearchText returns the lowercase concatenation of name, description, and
// tags used by the keyword heuristics.
func (s *Skill) SearchText() string {
	parts := make([]string, 0, 2+len(s.Tags))
	parts = append(parts, strings.ToLower(s.Name), strings.ToLower(s.Description))
	for _, t := range s.Tags {
		parts = append(parts, strings.ToLower(t))
	}
	return strings.Join(parts, " ")
}

// Validate checks the descriptor invariants enforced at registration time.
func (s *Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("skill %q: name is required", s.ID)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("skill %q: unknown category %q", s.ID, s.Category)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("skill %q: confidence %v outside [0,1]", s.ID, s.Confidence)
	}
	return nil
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog is a thread-safe registry of skills with category and tag indexes.
type Catalog struct {
	mu     sync.RWMutex
	skills map[string]*Skill

	// Registration order, so enumeration is deterministic.
	order []string

	byCategory map[Category][]*Skill
	byTag      map[string][]*Skill
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		skills:     make(map[string]*Skill),
		byCategory: make(map[Category][]*Skill),
		byTag:      make(map[string][]*Skill),
	}
}

// Register adds a skill to the catalog. Skill ids are unique within a
// catalog; registering a duplicate id is an error.
func (c *Catalog) Register(skill *Skill) error {
	if err := skill.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.skills[skill.ID]; exists {
		return fmt.Errorf("duplicate skill id %q", skill.ID)
	}

	c.skills[skill.ID] = skill
	c.order = append(c.order, skill.ID)
	c.byCategory[skill.Category] = append(c.byCategory[skill.Category], skill)
	for _, tag := range skill.Tags {
		key := strings.ToLower(tag)
		c.byTag[key] = append(c.byTag[key], skill)
	}

	return nil
}

// Remove deletes a skill by id. It returns false if the id is unknown.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	skill, ok := c.skills[id]
	if !ok {
		return false
	}

	delete(c.skills, id)
	c.order = removeID(c.order, id)
	c.byCategory[skill.Category] = removeSkill(c.byCategory[skill.Category], id)
	for _, tag := range skill.Tags {
		key := strings.ToLower(tag)
		c.byTag[key] = removeSkill(c.byTag[key], id)
	}
	return true
}

// Replace swaps the entire catalog contents for the given skills. Used by
// reload; existing snapshots are unaffected.
func (c *Catalog) Replace(skills []*Skill) error {
	fresh := New()
	for _, skill := range skills {
		if err := fresh.Register(skill); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.skills = fresh.skills
	c.order = fresh.order
	c.byCategory = fresh.byCategory
	c.byTag = fresh.byTag
	return nil
}

// Get returns a skill by id, or nil if absent.
func (c *Catalog) Get(id string) *Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.skills[id]
}

// Snapshot returns all skills in registration order. The returned slice is a
// copy and stays valid across later catalog mutations.
func (c *Catalog) Snapshot() []*Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*Skill, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.skills[id])
	}
	return result
}

// GetByCategory returns all skills in a category.
func (c *Catalog) GetByCategory(category Category) []*Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	skills := c.byCategory[category]
	result := make([]*Skill, len(skills))
	copy(result, skills)
	return result
}

// GetByTag returns all skills carrying the tag (case-insensitive).
func (c *Catalog) GetByTag(tag string) []*Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()

	skills := c.byTag[strings.ToLower(tag)]
	result := make([]*Skill, len(skills))
	copy(result, skills)
	return result
}

// GetByTagPattern returns skills with at least one tag matching the glob
// pattern, e.g. "hypothesis_*".
func (c *Catalog) GetByTagPattern(pattern string) ([]*Skill, error) {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("compile tag pattern: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []*Skill
	seen := make(map[string]bool)
	for tag, skills := range c.byTag {
		if !g.Match(tag) {
			continue
		}
		for _, skill := range skills {
			if !seen[skill.ID] {
				seen[skill.ID] = true
				result = append(result, skill)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Len returns the number of registered skills.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.skills)
}

// =============================================================================
// Catalog Stats
// =============================================================================

// Stats summarizes catalog contents.
type Stats struct {
	Total       int               `json:"total"`
	ByCategory  map[string]int    `json:"by_category"`
	ByTypeGroup map[TypeGroup]int `json:"by_type_group"`
	TagCount    int               `json:"tag_count"`
}

// Stats returns catalog statistics.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		Total:       len(c.skills),
		ByCategory:  make(map[string]int),
		ByTypeGroup: make(map[TypeGroup]int),
		TagCount:    len(c.byTag),
	}
	for _, skill := range c.skills {
		stats.ByCategory[string(skill.Category)]++
		stats.ByTypeGroup[skill.TypeGroup()]++
	}
	return stats
}

func removeSkill(skills []*Skill, id string) []*Skill {
	for i, existing := range skills {
		if existing.ID == id {
			return append(skills[:i], skills[i+1:]...)
		}
	}
	return skills
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
