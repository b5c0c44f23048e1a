package recommend

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/adalundhe/savant/core/catalog"
)

// =============================================================================
// Recommendation Scorer
// =============================================================================

// RankingMethod selects how match results are converted to final scores.
type RankingMethod string

const (
	RankWeightedScore   RankingMethod = "weighted_score"
	RankConfidenceScore RankingMethod = "confidence_score"
	RankBalanced        RankingMethod = "balanced"
	RankPopularity      RankingMethod = "popularity"
	RankRecentlyUsed    RankingMethod = "recently_used"
)

// Valid reports whether m is a known ranking method.
func (m RankingMethod) Valid() bool {
	switch m {
	case RankWeightedScore, RankConfidenceScore, RankBalanced, RankPopularity, RankRecentlyUsed:
		return true
	}
	return false
}

// ErrInvalidLimit is returned when a caller asks for fewer than one result.
var ErrInvalidLimit = errors.New("recommendation limit must be at least 1")

// Recommendation wraps a match result with its post-ranking score and
// position.
type Recommendation struct {
	Skill           *catalog.Skill `json:"skill"`
	MatchScore      float64        `json:"match_score"`
	Confidence      float64        `json:"confidence"`
	FinalScore      float64        `json:"final_score"`
	MatchReasons    []string       `json:"match_reasons,omitempty"`
	Mismatches      []string       `json:"mismatches,omitempty"`
	RankingPosition int            `json:"ranking_position"`
	RankingMethod   RankingMethod  `json:"ranking_method"`
}

// Scorer ranks match results into a bounded recommendation list. The usage
// history is an immutable snapshot supplied at construction; popularity and
// recency ranking read it, nothing writes it.
type Scorer struct {
	method   RankingMethod
	usage    map[string]int
	maxUsage int
}

// NewScorer creates a scorer. An empty method defaults to balanced ranking.
func NewScorer(method RankingMethod, usageHistory map[string]int) (*Scorer, error) {
	if method == "" {
		method = RankBalanced
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown ranking method %q", method)
	}

	usage := make(map[string]int, len(usageHistory))
	maxUsage := 0
	for id, count := range usageHistory {
		usage[id] = count
		if count > maxUsage {
			maxUsage = count
		}
	}
	return &Scorer{method: method, usage: usage, maxUsage: maxUsage}, nil
}

// Method returns the scorer's ranking method.
func (s *Scorer) Method() RankingMethod {
	return s.method
}

// ScoreRecommendations converts match results into ranked recommendations,
// stable-sorted descending by final score and truncated to max.
func (s *Scorer) ScoreRecommendations(results []MatchResult, max int) ([]Recommendation, error) {
	if max < 1 {
		return nil, ErrInvalidLimit
	}

	recs := make([]Recommendation, 0, len(results))
	for _, result := range results {
		recs = append(recs, Recommendation{
			Skill:         result.Skill,
			MatchScore:    result.Score,
			Confidence:    result.Confidence,
			FinalScore:    s.finalScore(result),
			MatchReasons:  result.MatchReasons,
			Mismatches:    result.Mismatches,
			RankingMethod: s.method,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].FinalScore > recs[j].FinalScore })
	for i := range recs {
		recs[i].RankingPosition = i + 1
	}

	if len(recs) > max {
		recs = recs[:max]
	}
	return recs, nil
}

func (s *Scorer) finalScore(result MatchResult) float64 {
	switch s.method {
	case RankWeightedScore:
		return result.Score
	case RankConfidenceScore:
		return result.Confidence
	case RankPopularity:
		return result.Score*0.7 + s.usageRatio(result.Skill.ID)*0.3
	case RankRecentlyUsed:
		return result.Score*0.8 + s.usageRatio(result.Skill.ID)*0.2
	default: // balanced
		return result.Score*0.7 + result.Confidence*0.3
	}
}

func (s *Scorer) usageRatio(skillID string) float64 {
	if s.maxUsage == 0 {
		return 0
	}
	return float64(s.usage[skillID]) / float64(s.maxUsage)
}

// FilterByThreshold keeps recommendations at or above the score threshold.
func FilterByThreshold(recs []Recommendation, threshold float64) []Recommendation {
	filtered := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.FinalScore >= threshold {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Diversify caps the number of recommendations per category, then re-sorts by
// final score. Input order decides which entries survive the per-category
// cap, so callers should pass an already ranked list.
func Diversify(recs []Recommendation, maxPerCategory int) []Recommendation {
	if maxPerCategory < 1 {
		return []Recommendation{}
	}

	perCategory := make(map[catalog.Category]int)
	diverse := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if perCategory[r.Skill.Category] >= maxPerCategory {
			continue
		}
		perCategory[r.Skill.Category]++
		diverse = append(diverse, r)
	}

	sort.SliceStable(diverse, func(i, j int) bool { return diverse[i].FinalScore > diverse[j].FinalScore })
	return diverse
}

// ExplainScore buckets a final score into a deterministic human-readable
// interpretation.
func ExplainScore(rec Recommendation) string {
	switch {
	case rec.FinalScore >= 0.8:
		return "excellent match - highly recommended"
	case rec.FinalScore >= 0.6:
		return "good match - suitable choice"
	case rec.FinalScore >= 0.4:
		return "moderate match - may work with some adjustments"
	default:
		return "weak match - consider alternatives"
	}
}

// =============================================================================
// Recommendation Comparison
// =============================================================================

// ScoreStats summarizes a score distribution.
type ScoreStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Comparison is an overview of a ranked recommendation list.
type Comparison struct {
	Count          int            `json:"count"`
	TopSkill       string         `json:"top_skill,omitempty"`
	TopScore       float64        `json:"top_score,omitempty"`
	FinalScores    ScoreStats     `json:"final_scores"`
	MatchScores    ScoreStats     `json:"match_scores"`
	Confidences    ScoreStats     `json:"confidences"`
	Categories     map[string]int `json:"categories"`
	AggregateScore float64        `json:"aggregate_score"`
}

// Compare summarizes a recommendation list for display.
func Compare(recs []Recommendation) Comparison {
	comparison := Comparison{
		Count:      len(recs),
		Categories: make(map[string]int),
	}
	if len(recs) == 0 {
		return comparison
	}

	finals := make([]float64, len(recs))
	matches := make([]float64, len(recs))
	confidences := make([]float64, len(recs))
	for i, r := range recs {
		finals[i] = r.FinalScore
		matches[i] = r.MatchScore
		confidences[i] = r.Confidence
		comparison.Categories[string(r.Skill.Category)]++
	}

	comparison.TopSkill = recs[0].Skill.Name
	comparison.TopScore = recs[0].FinalScore
	comparison.FinalScores = statsOf(finals)
	comparison.MatchScores = statsOf(matches)
	comparison.Confidences = statsOf(confidences)
	comparison.AggregateScore = comparison.FinalScores.Mean
	return comparison
}

func statsOf(values []float64) ScoreStats {
	return ScoreStats{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
}
