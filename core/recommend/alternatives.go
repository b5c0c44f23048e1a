package recommend

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
)

// =============================================================================
// Alternative Finder
// =============================================================================
//
// Given a primary recommendation, the finder runs five independent passes
// over the catalog snapshot for substitutes and complements, each annotated
// with trade-offs. Pairwise similarity is memoized within one Find pass
// since the same pair recurs across passes.

// AlternativeType classifies how an alternative relates to the primary skill.
type AlternativeType string

const (
	AltSimilarMethod AlternativeType = "similar_method"
	AltSimpler       AlternativeType = "simpler_alternative"
	AltMoreAdvanced  AlternativeType = "more_advanced"
	AltDifferent     AlternativeType = "different_approach"
	AltComplementary AlternativeType = "complementary"
)

// Alternative is one alternative solution with trade-offs.
type Alternative struct {
	Skill           *catalog.Skill  `json:"skill"`
	AlternativeType AlternativeType `json:"alternative_type"`
	SimilarityScore float64         `json:"similarity_score"`
	Advantages      []string        `json:"advantages"`
	Disadvantages   []string        `json:"disadvantages"`
	UseWhen         []string        `json:"use_when"`
	Confidence      float64         `json:"confidence"`
}

// AlternativeSet is the merged, deduplicated, capped result.
type AlternativeSet struct {
	Primary           *catalog.Skill `json:"primary_recommendation"`
	Alternatives      []Alternative  `json:"alternatives"`
	TotalAlternatives int            `json:"total_alternatives"`
	Reasoning         string         `json:"reasoning"`
}

const (
	maxSimilarResults       = 3
	maxSimplerResults       = 2
	maxAdvancedResults      = 2
	maxDifferentResults     = 2
	maxComplementaryResults = 2

	similarityCacheSize = 1024
)

// AlternativeFinder searches a catalog snapshot for alternatives.
type AlternativeFinder struct {
	tables AlternativeTables
	simLRU *lru.Cache[string, float64]
}

// NewAlternativeFinder creates a finder with the given tables.
func NewAlternativeFinder(tables AlternativeTables) *AlternativeFinder {
	cache, _ := lru.New[string, float64](similarityCacheSize)
	return &AlternativeFinder{tables: tables, simLRU: cache}
}

// Find searches for alternatives to the primary skill, returning at most
// maxAlternatives sorted by similarity descending. TotalAlternatives records
// the pre-cap count.
func (f *AlternativeFinder) Find(
	primary *catalog.Skill,
	problemType problem.Type,
	dataTypes *problem.DataTypeResult,
	available []*catalog.Skill,
	maxAlternatives int,
) (AlternativeSet, error) {
	if primary == nil || primary.ID == "" {
		return AlternativeSet{}, ErrInvalidSkill
	}
	if maxAlternatives < 1 {
		return AlternativeSet{}, ErrInvalidLimit
	}

	// The cache is scoped to one pass: skill ids survive a catalog reload
	// with different content, so entries must not outlive the snapshot.
	f.simLRU.Purge()

	var alternatives []Alternative
	alternatives = append(alternatives, f.findSimilar(primary, available)...)
	alternatives = append(alternatives, f.findSimpler(primary, available, problemType)...)
	alternatives = append(alternatives, f.findAdvanced(primary, available, problemType)...)
	alternatives = append(alternatives, f.findDifferent(primary, available, problemType)...)
	alternatives = append(alternatives, f.findComplementary(primary, available)...)

	alternatives = dedupeAlternatives(alternatives)
	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].SimilarityScore > alternatives[j].SimilarityScore
	})

	total := len(alternatives)
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	return AlternativeSet{
		Primary:           primary,
		Alternatives:      alternatives,
		TotalAlternatives: total,
		Reasoning:         reasoning(primary, alternatives),
	}, nil
}

// findSimilar uses the curated method table keyed by substrings of the
// primary id, then falls back to same-category skills sharing two tags.
func (f *AlternativeFinder) findSimilar(primary *catalog.Skill, available []*catalog.Skill) []Alternative {
	var alternatives []Alternative
	primaryLower := strings.ToLower(primary.ID)

	// Fixed key order keeps output order stable across calls.
	methods := make([]string, 0, len(f.tables.MethodAlternatives))
	for method := range f.tables.MethodAlternatives {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	for _, method := range methods {
		if !strings.Contains(primaryLower, method) {
			continue
		}
		for _, altID := range f.tables.MethodAlternatives[method] {
			for _, skill := range available {
				if skill.ID == primary.ID || !strings.Contains(strings.ToLower(skill.ID), altID) {
					continue
				}
				alternatives = append(alternatives, Alternative{
					Skill:           skill,
					AlternativeType: AltSimilarMethod,
					SimilarityScore: f.similarity(primary, skill),
					Advantages:      advantages(skill, primary),
					Disadvantages:   disadvantages(skill, primary),
					UseWhen:         []string{"Similar requirements", "Alternative approach needed"},
					Confidence:      0.8,
				})
			}
		}
	}

	for _, skill := range available {
		if skill.ID == primary.ID || skill.Category != primary.Category {
			continue
		}
		if sharedTags(primary, skill) >= 2 {
			alternatives = append(alternatives, Alternative{
				Skill:           skill,
				AlternativeType: AltSimilarMethod,
				SimilarityScore: f.similarity(primary, skill),
				Advantages:      advantages(skill, primary),
				Disadvantages:   disadvantages(skill, primary),
				UseWhen:         []string{"Similar requirements", "Alternative approach needed"},
				Confidence:      0.7,
			})
		}
	}

	return capAlternatives(alternatives, maxSimilarResults)
}

func (f *AlternativeFinder) findSimpler(
	primary *catalog.Skill,
	available []*catalog.Skill,
	problemType problem.Type,
) []Alternative {
	var alternatives []Alternative
	for _, skill := range available {
		if skill.ID == primary.ID {
			continue
		}
		if !containsAny(idAndDescription(skill), f.tables.SimplerKeywords) {
			continue
		}
		if !compatibleProblemType(skill, problemType) {
			continue
		}
		alternatives = append(alternatives, Alternative{
			Skill:           skill,
			AlternativeType: AltSimpler,
			SimilarityScore: f.similarity(primary, skill) * 0.8,
			Advantages:      []string{"Easier to understand", "Faster computation", "Fewer assumptions"},
			Disadvantages:   []string{"Less powerful", "May miss nuanced patterns"},
			UseWhen:         []string{"Simplicity is prioritized", "Quick results needed", "Learning stage"},
			Confidence:      0.75,
		})
	}
	return capAlternatives(alternatives, maxSimplerResults)
}

func (f *AlternativeFinder) findAdvanced(
	primary *catalog.Skill,
	available []*catalog.Skill,
	problemType problem.Type,
) []Alternative {
	var alternatives []Alternative
	for _, skill := range available {
		if skill.ID == primary.ID {
			continue
		}
		if !containsAny(idAndDescription(skill), f.tables.AdvancedKeywords) {
			continue
		}
		if !compatibleProblemType(skill, problemType) {
			continue
		}
		alternatives = append(alternatives, Alternative{
			Skill:           skill,
			AlternativeType: AltMoreAdvanced,
			SimilarityScore: f.similarity(primary, skill) * 0.9,
			Advantages:      []string{"More powerful", "Handles edge cases", "Better accuracy"},
			Disadvantages:   []string{"More complex", "Slower computation", "Requires more data"},
			UseWhen:         []string{"High accuracy needed", "Complex data patterns", "Expert users"},
			Confidence:      0.7,
		})
	}
	return capAlternatives(alternatives, maxAdvancedResults)
}

// findDifferent keeps topically compatible skills whose similarity lands in
// the moderately-related band: not near-duplicates, not unrelated.
func (f *AlternativeFinder) findDifferent(
	primary *catalog.Skill,
	available []*catalog.Skill,
	problemType problem.Type,
) []Alternative {
	var alternatives []Alternative
	for _, skill := range available {
		if skill.ID == primary.ID {
			continue
		}
		if !compatibleProblemType(skill, problemType) {
			continue
		}
		similarity := f.similarity(primary, skill)
		if similarity < 0.3 || similarity > 0.6 {
			continue
		}
		alternatives = append(alternatives, Alternative{
			Skill:           skill,
			AlternativeType: AltDifferent,
			SimilarityScore: similarity,
			Advantages:      advantages(skill, primary),
			Disadvantages:   disadvantages(skill, primary),
			UseWhen:         []string{"Different perspective", "Verify results"},
			Confidence:      0.65,
		})
	}
	return capAlternatives(alternatives, maxDifferentResults)
}

// findComplementary offers visualization skills alongside any statistical
// method primary.
func (f *AlternativeFinder) findComplementary(primary *catalog.Skill, available []*catalog.Skill) []Alternative {
	if primary.Category != catalog.CategoryStatisticalMethod {
		return nil
	}

	var alternatives []Alternative
	for _, skill := range available {
		if skill.ID == primary.ID {
			continue
		}
		if !containsAny(idAndDescription(skill), f.tables.VisualizationKeywords) {
			continue
		}
		alternatives = append(alternatives, Alternative{
			Skill:           skill,
			AlternativeType: AltComplementary,
			SimilarityScore: 0.5,
			Advantages:      []string{"Visual representation", "Better communication", "Pattern detection"},
			Disadvantages:   []string{"Additional step", "Requires visualization libraries"},
			UseWhen:         []string{"Need to present results", "Explore data visually", "Create reports"},
			Confidence:      0.8,
		})
	}
	return capAlternatives(alternatives, maxComplementaryResults)
}

// =============================================================================
// Pairwise Similarity
// =============================================================================

// similarity is the weighted pairwise score: category 0.3, tag overlap up to
// 0.3, statistical concept 0.2 (0.1 for containment), data type overlap 0.2.
// Empty data type sets default to numerical.
func (f *AlternativeFinder) similarity(a, b *catalog.Skill) float64 {
	key := a.ID + "\x00" + b.ID
	if cached, ok := f.simLRU.Get(key); ok {
		return cached
	}

	score := 0.0
	if a.Category == b.Category {
		score += 0.3
	}

	tagScore := float64(sharedTags(a, b)) * 0.15
	if tagScore > 0.3 {
		tagScore = 0.3
	}
	score += tagScore

	if a.StatisticalConcept != "" && b.StatisticalConcept != "" {
		switch {
		case a.StatisticalConcept == b.StatisticalConcept:
			score += 0.2
		case strings.Contains(a.StatisticalConcept, b.StatisticalConcept),
			strings.Contains(b.StatisticalConcept, a.StatisticalConcept):
			score += 0.1
		}
	}

	if dataTypesIntersect(a.InputDataTypes, b.InputDataTypes) {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	f.simLRU.Add(key, score)
	return score
}

func dataTypesIntersect(a, b []catalog.DataType) bool {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 {
		setA = map[catalog.DataType]bool{catalog.DataNumerical: true}
	}
	if len(setB) == 0 {
		setB = map[catalog.DataType]bool{catalog.DataNumerical: true}
	}
	for dt := range setA {
		if setB[dt] {
			return true
		}
	}
	return false
}

func sharedTags(a, b *catalog.Skill) int {
	set := make(map[string]bool, len(a.Tags))
	for _, tag := range a.Tags {
		set[strings.ToLower(tag)] = true
	}
	shared := 0
	for _, tag := range b.Tags {
		if set[strings.ToLower(tag)] {
			shared++
		}
	}
	return shared
}

// compatibleProblemType checks keyword overlap between the problem type's
// tokens and the skill's id, description, and tags.
func compatibleProblemType(skill *catalog.Skill, problemType problem.Type) bool {
	text := strings.ToLower(skill.ID) + " " + skill.SearchText()
	for _, kw := range strings.Split(string(problemType), "_") {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// =============================================================================
// Trade-off Heuristics
// =============================================================================

// Trade-offs compare dependency counts, complexity strings, and use-case
// counts. With no detectable difference both lists fall back to a neutral
// label rather than coming back empty.

func advantages(alternative, primary *catalog.Skill) []string {
	var result []string
	if len(alternative.Dependencies) < len(primary.Dependencies) {
		result = append(result, "Fewer dependencies")
	}
	if alternative.Complexity != "" && primary.Complexity != "" &&
		strings.Contains(alternative.Complexity, "O(n)") && strings.Contains(primary.Complexity, "O(n^2)") {
		result = append(result, "Better time complexity")
	}
	if len(alternative.UseCases) > len(primary.UseCases) {
		result = append(result, "More use cases")
	}
	if len(result) == 0 {
		result = append(result, "Different approach")
	}
	return result
}

func disadvantages(alternative, primary *catalog.Skill) []string {
	var result []string
	if len(alternative.Dependencies) > len(primary.Dependencies) {
		result = append(result, "More dependencies")
	}
	if alternative.Complexity != "" && primary.Complexity != "" &&
		strings.Contains(alternative.Complexity, "O(n^2)") && strings.Contains(primary.Complexity, "O(n)") {
		result = append(result, "Worse time complexity")
	}
	if alternative.Confidence < primary.Confidence {
		result = append(result, "Lower confidence in classification")
	}
	if len(result) == 0 {
		result = append(result, "Different approach")
	}
	return result
}

func idAndDescription(skill *catalog.Skill) string {
	return strings.ToLower(skill.ID + " " + skill.Description)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func capAlternatives(alternatives []Alternative, limit int) []Alternative {
	if len(alternatives) > limit {
		return alternatives[:limit]
	}
	return alternatives
}

func dedupeAlternatives(alternatives []Alternative) []Alternative {
	type key struct {
		id      string
		altType AlternativeType
	}
	seen := make(map[key]bool, len(alternatives))
	unique := make([]Alternative, 0, len(alternatives))
	for _, alt := range alternatives {
		k := key{alt.Skill.ID, alt.AlternativeType}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, alt)
	}
	return unique
}

func reasoning(primary *catalog.Skill, alternatives []Alternative) string {
	if len(alternatives) == 0 {
		return fmt.Sprintf("No alternatives found for %s", primary.Name)
	}

	counts := make(map[AlternativeType]int)
	var order []AlternativeType
	for _, alt := range alternatives {
		if counts[alt.AlternativeType] == 0 {
			order = append(order, alt.AlternativeType)
		}
		counts[alt.AlternativeType]++
	}

	parts := make([]string, len(order))
	for i, altType := range order {
		parts[i] = fmt.Sprintf("%s (%d)", altType, counts[altType])
	}
	return fmt.Sprintf("Found %d alternatives for %s: %s", len(alternatives), primary.Name, strings.Join(parts, ", "))
}
