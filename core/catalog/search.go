package catalog

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// =============================================================================
// Full-Text Catalog Search
// =============================================================================
//
// SearchIndex provides free-text lookup over skill names, descriptions,
// tags, and use cases. It is a display/CLI convenience on top of the catalog;
// the matching heuristics never consult it, so recommendation output stays
// independent of index state.

// SearchHit is one full-text search result.
type SearchHit struct {
	Skill *Skill  `json:"skill"`
	Score float64 `json:"score"`
}

// searchDoc is the shape indexed per skill.
type searchDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Long        string `json:"long"`
	Tags        string `json:"tags"`
	UseCases    string `json:"use_cases"`
	Concept     string `json:"concept"`
}

// SearchIndex is an in-memory bleve index over a catalog snapshot.
type SearchIndex struct {
	index  bleve.Index
	skills map[string]*Skill
}

// NewSearchIndex builds an index over the given snapshot.
func NewSearchIndex(skills []*Skill) (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	byID := make(map[string]*Skill, len(skills))
	batch := index.NewBatch()
	for _, skill := range skills {
		byID[skill.ID] = skill
		if err := batch.Index(skill.ID, docFor(skill)); err != nil {
			index.Close()
			return nil, fmt.Errorf("index skill %q: %w", skill.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("commit search batch: %w", err)
	}

	return &SearchIndex{index: index, skills: byID}, nil
}

// Search runs a free-text query and returns up to limit hits, best first.
func (si *SearchIndex) Search(query string, limit int) ([]SearchHit, error) {
	if limit < 1 {
		return nil, nil
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		skill, ok := si.skills[hit.ID]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{Skill: skill, Score: hit.Score})
	}
	return hits, nil
}

// Close releases the index.
func (si *SearchIndex) Close() error {
	return si.index.Close()
}

func buildMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = "standard"
	return m
}

func docFor(skill *Skill) searchDoc {
	return searchDoc{
		Name:        skill.Name,
		Description: skill.Description,
		Long:        skill.LongDescription,
		Tags:        strings.Join(skill.Tags, " "),
		UseCases:    strings.Join(skill.UseCases, " "),
		Concept:     skill.StatisticalConcept,
	}
}
