package recommend

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
)

// =============================================================================
// Skill Matcher
// =============================================================================
//
// The matcher scores every skill in a catalog snapshot against one analyzed
// problem along six independent dimensions and combines them with fixed
// weights. It is a transparent linear model: the same inputs always produce
// the same scores, and every score comes with human-readable reasons.

// Matching weights. They sum to 1.0 and are never renormalized, even when a
// dimension only reaches its floor value.
const (
	weightCategory     = 0.30
	weightDataType     = 0.25
	weightProblemType  = 0.20
	weightOutputFormat = 0.10
	weightTagRelevance = 0.10
	weightConcept      = 0.05
)

// MatchResult is the scored compatibility between one skill and one problem.
type MatchResult struct {
	Skill        *catalog.Skill `json:"skill"`
	Score        float64        `json:"score"`
	MatchReasons []string       `json:"match_reasons,omitempty"`
	Mismatches   []string       `json:"mismatches,omitempty"`
	Confidence   float64        `json:"confidence"`
}

// Matcher scores skills against problems.
type Matcher struct {
	tables MatcherTables

	// Workers bounds the per-skill scoring concurrency. Zero means
	// GOMAXPROCS.
	Workers int
}

// NewMatcher creates a matcher with the given heuristic tables.
func NewMatcher(tables MatcherTables) *Matcher {
	return &Matcher{tables: tables}
}

// Match scores each skill and returns the top topK results sorted by score
// descending. A topK below 1 yields an empty result.
func (m *Matcher) Match(
	skills []*catalog.Skill,
	features problem.Features,
	problemType problem.Type,
	dataTypes *problem.DataTypeResult,
	outputFormat problem.OutputFormat,
	topK int,
) []MatchResult {
	if topK < 1 || len(skills) == 0 {
		return []MatchResult{}
	}

	results := make([]MatchResult, len(skills))

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, skill := range skills {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, skill *catalog.Skill) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = m.matchSkill(skill, features, problemType, dataTypes, outputFormat)
		}(i, skill)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func (m *Matcher) matchSkill(
	skill *catalog.Skill,
	features problem.Features,
	problemType problem.Type,
	dataTypes *problem.DataTypeResult,
	outputFormat problem.OutputFormat,
) MatchResult {
	var reasons, mismatches []string
	record := func(reason, mismatch string) {
		if reason != "" {
			reasons = append(reasons, reason)
		}
		if mismatch != "" {
			mismatches = append(mismatches, mismatch)
		}
	}

	categoryScore, reason := m.scoreCategory(skill, problemType)
	record(reason, "")

	dataScore, reason, mismatch := m.scoreDataTypes(skill, features, dataTypes)
	record(reason, mismatch)

	typeScore, reason := m.scoreProblemType(skill, problemType)
	record(reason, "")

	formatScore, reason, mismatch := m.scoreOutputFormat(skill, outputFormat)
	record(reason, mismatch)

	tagScore, reason := m.scoreTags(skill, features)
	record(reason, "")

	conceptScore, reason := m.scoreConcept(skill, features)
	record(reason, "")

	score := categoryScore*weightCategory +
		dataScore*weightDataType +
		typeScore*weightProblemType +
		formatScore*weightOutputFormat +
		tagScore*weightTagRelevance +
		conceptScore*weightConcept

	confidence := float64(len(reasons)) / 4.0
	if confidence > 1 {
		confidence = 1
	}

	return MatchResult{
		Skill:        skill,
		Score:        score,
		MatchReasons: reasons,
		Mismatches:   mismatches,
		Confidence:   confidence,
	}
}

// scoreCategory checks the skill category against the canonical category for
// the problem type. Statistical methods get generic credit because most of
// them flex across problem types.
func (m *Matcher) scoreCategory(skill *catalog.Skill, problemType problem.Type) (float64, string) {
	expected, known := m.tables.CategoryByProblemType[problemType]
	switch {
	case known && skill.Category == expected:
		return 1.0, fmt.Sprintf("category matches: %s", skill.Category)
	case skill.Category == catalog.CategoryStatisticalMethod:
		return 0.7, fmt.Sprintf("statistical method applicable to %s", problemType)
	default:
		return 0.3, ""
	}
}

func (m *Matcher) scoreDataTypes(
	skill *catalog.Skill,
	features problem.Features,
	dataTypes *problem.DataTypeResult,
) (float64, string, string) {
	problemTypes := features.DataTypes
	if len(problemTypes) == 0 && dataTypes != nil {
		problemTypes = dataTypes.AllTypes()
	}
	if len(skill.InputDataTypes) == 0 || len(problemTypes) == 0 {
		return 0.5, "", ""
	}

	skillSet := toSet(skill.InputDataTypes)
	if skillSet[catalog.DataMixed] {
		return 1.0, "skill supports mixed data types", ""
	}

	problemSet := toSet(problemTypes)
	var overlap []catalog.DataType
	for _, dt := range problemTypes {
		if skillSet[dt] {
			overlap = append(overlap, dt)
		}
	}

	switch {
	case len(overlap) == len(problemSet) && len(overlap) > 0:
		return 1.0, fmt.Sprintf("fully compatible data types: %s", joinTypes(overlap)), ""
	case len(overlap) > 0:
		return 0.6, fmt.Sprintf("partially compatible data types: %s", joinTypes(overlap)), ""
	default:
		return 0.2, "", "data type mismatch"
	}
}

// scoreProblemType counts how many of the problem type's component keywords
// appear in the skill's name, description, and tags.
func (m *Matcher) scoreProblemType(skill *catalog.Skill, problemType problem.Type) (float64, string) {
	keywords := strings.Split(string(problemType), "_")
	text := skill.SearchText()

	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}

	switch {
	case hits >= 2:
		return 1.0, fmt.Sprintf("directly addresses %s", problemType)
	case hits == 1:
		return 0.7, fmt.Sprintf("related to %s", problemType)
	}

	if skill.StatisticalConcept != "" {
		concept := strings.ToLower(skill.StatisticalConcept)
		for _, kw := range keywords {
			if strings.Contains(concept, kw) {
				return 0.6, fmt.Sprintf("statistical concept matches: %s", skill.StatisticalConcept)
			}
		}
	}
	return 0.4, ""
}

// scoreOutputFormat is advisory: a format mismatch never drops a skill's
// dimension to zero.
func (m *Matcher) scoreOutputFormat(skill *catalog.Skill, format problem.OutputFormat) (float64, string, string) {
	if format == "" || format == problem.FormatUnknown {
		return 1.0, "no specific output format required", ""
	}

	skillFormat := strings.ToLower(skill.OutputFormat)
	required := strings.ToLower(string(format))
	if skillFormat != "" && (strings.Contains(skillFormat, required) || strings.Contains(required, skillFormat)) {
		return 1.0, fmt.Sprintf("output format matches: %s", skill.OutputFormat), ""
	}

	text := skill.SearchText()
	for _, kw := range m.tables.FormatKeywords[format] {
		if strings.Contains(text, kw) {
			return 0.8, fmt.Sprintf("can produce %s output", format), ""
		}
	}
	return 0.5, "", "output format compatibility uncertain"
}

func (m *Matcher) scoreTags(skill *catalog.Skill, features problem.Features) (float64, string) {
	if len(skill.Tags) == 0 || len(features.ContextKeywords) == 0 {
		return 0.5, ""
	}

	keywordSet := make(map[string]bool, len(features.ContextKeywords))
	for _, kw := range features.ContextKeywords {
		keywordSet[strings.ToLower(kw)] = true
	}

	var matches []string
	for _, tag := range skill.Tags {
		if keywordSet[strings.ToLower(tag)] {
			matches = append(matches, strings.ToLower(tag))
		}
	}

	switch {
	case len(matches) >= 2:
		return 1.0, fmt.Sprintf("tags match: %s", strings.Join(matches, ", "))
	case len(matches) == 1:
		return 0.7, fmt.Sprintf("tag match: %s", matches[0])
	}

	for _, useCase := range skill.UseCases {
		lower := strings.ToLower(useCase)
		for kw := range keywordSet {
			if strings.Contains(lower, kw) {
				return 0.6, fmt.Sprintf("use case relevant: %s", truncate(useCase, 50))
			}
		}
	}
	return 0.4, ""
}

func (m *Matcher) scoreConcept(skill *catalog.Skill, features problem.Features) (float64, string) {
	if skill.StatisticalConcept == "" {
		return 0.5, ""
	}

	concept := strings.ToLower(skill.StatisticalConcept)
	text := strings.ToLower(strings.Join([]string{
		features.Description,
		features.PrimaryGoal,
		strings.Join(features.ContextKeywords, " "),
	}, " "))

	if strings.Contains(text, concept) {
		return 1.0, fmt.Sprintf("statistical concept directly matches: %s", skill.StatisticalConcept)
	}

	for _, term := range m.tables.ConceptRelatedTerms[skill.StatisticalConcept] {
		if strings.Contains(text, term) {
			return 0.7, fmt.Sprintf("related to %s", skill.StatisticalConcept)
		}
	}
	return 0.5, ""
}

// FilterByMinScore drops results below the score threshold.
func FilterByMinScore(results []MatchResult, minScore float64) []MatchResult {
	filtered := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func toSet(types []catalog.DataType) map[catalog.DataType]bool {
	set := make(map[catalog.DataType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

func joinTypes(types []catalog.DataType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
