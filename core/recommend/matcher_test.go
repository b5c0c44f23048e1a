package recommend

import (
	"testing"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tTestSkill() *catalog.Skill {
	return &catalog.Skill{
		ID:                 "t-test",
		Name:               "T-Test",
		Category:           catalog.CategoryStatisticalMethod,
		Tags:               []string{"parametric", "comparison"},
		InputDataTypes:     []catalog.DataType{catalog.DataNumerical},
		Description:        "Two-sample t-test for comparing group means",
		StatisticalConcept: "hypothesis_testing",
		Confidence:         0.9,
	}
}

func mannWhitneySkill() *catalog.Skill {
	return &catalog.Skill{
		ID:                 "mann-whitney",
		Name:               "Mann-Whitney U Test",
		Category:           catalog.CategoryStatisticalMethod,
		Tags:               []string{"nonparametric", "comparison"},
		InputDataTypes:     []catalog.DataType{catalog.DataNumerical},
		Description:        "Nonparametric two-sample rank test",
		StatisticalConcept: "hypothesis_testing",
		Confidence:         0.85,
	}
}

func sentimentSkill() *catalog.Skill {
	return &catalog.Skill{
		ID:             "sentiment-analysis",
		Name:           "Sentiment Analysis",
		Category:       catalog.CategoryDataAnalysis,
		Tags:           []string{"nlp"},
		InputDataTypes: []catalog.DataType{catalog.DataText},
		Description:    "Score document sentiment",
		Confidence:     0.8,
	}
}

func twoSampleFeatures() problem.Features {
	return problem.Features{
		Description:     "compare two groups",
		DataTypes:       []catalog.DataType{catalog.DataNumerical},
		ProblemType:     problem.TypeTwoSampleTest,
		PrimaryGoal:     "compare two groups",
		ContextKeywords: []string{"parametric", "comparison", "groups"},
	}
}

func TestMatch_ScoresPerfectCandidate(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	results := m.Match(
		[]*catalog.Skill{tTestSkill()},
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		10,
	)
	require.Len(t, results, 1)

	r := results[0]
	// category 1.0, data 1.0, type 1.0, format 1.0, tags 1.0, concept 0.5
	assert.InDelta(t, 0.975, r.Score, 1e-9)
	assert.Equal(t, 1.0, r.Confidence)
	assert.Empty(t, r.Mismatches)
	assert.Contains(t, r.MatchReasons, "category matches: statistical_method")
	assert.Contains(t, r.MatchReasons, "directly addresses two_sample_test")
	assert.Contains(t, r.MatchReasons, "no specific output format required")
}

func TestMatch_RanksByScoreDescending(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	results := m.Match(
		[]*catalog.Skill{sentimentSkill(), mannWhitneySkill(), tTestSkill()},
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		10,
	)
	require.Len(t, results, 3)

	assert.Equal(t, "t-test", results[0].Skill.ID)
	assert.Equal(t, "sentiment-analysis", results[2].Skill.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestMatch_TruncatesToTopK(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	results := m.Match(
		[]*catalog.Skill{tTestSkill(), mannWhitneySkill(), sentimentSkill()},
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		2,
	)
	assert.Len(t, results, 2)
}

func TestMatch_TopKBelowOneIsEmpty(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	results := m.Match([]*catalog.Skill{tTestSkill()}, twoSampleFeatures(),
		problem.TypeTwoSampleTest, nil, problem.FormatUnknown, 0)
	assert.Empty(t, results)
}

func TestMatch_EmptyCatalogIsEmpty(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	results := m.Match(nil, twoSampleFeatures(),
		problem.TypeTwoSampleTest, nil, problem.FormatUnknown, 10)
	assert.Empty(t, results)
}

func TestMatch_RecordsDataTypeMismatch(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	results := m.Match(
		[]*catalog.Skill{sentimentSkill()},
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		10,
	)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Mismatches, "data type mismatch")
}

func TestMatch_UsesDetectedDataTypesWhenFeaturesSilent(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	features := twoSampleFeatures()
	features.DataTypes = nil
	detected := &problem.DataTypeResult{PrimaryType: catalog.DataText, Confidence: 0.6}

	results := m.Match([]*catalog.Skill{sentimentSkill()}, features,
		problem.TypeTwoSampleTest, detected, problem.FormatUnknown, 10)
	require.Len(t, results, 1)
	assert.NotContains(t, results[0].Mismatches, "data type mismatch")
}

func TestMatch_IsDeterministicAcrossRuns(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())
	skills := []*catalog.Skill{tTestSkill(), mannWhitneySkill(), sentimentSkill()}

	first := m.Match(skills, twoSampleFeatures(), problem.TypeTwoSampleTest, nil, problem.FormatUnknown, 10)
	for i := 0; i < 20; i++ {
		again := m.Match(skills, twoSampleFeatures(), problem.TypeTwoSampleTest, nil, problem.FormatUnknown, 10)
		require.Equal(t, first, again)
	}
}

func TestScoreDataTypes_MixedSkillAlwaysCompatible(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())
	skill := tTestSkill()
	skill.InputDataTypes = []catalog.DataType{catalog.DataMixed}

	score, reason, mismatch := m.scoreDataTypes(skill, twoSampleFeatures(), nil)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, "skill supports mixed data types", reason)
	assert.Empty(t, mismatch)
}

func TestScoreDataTypes_PartialOverlap(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())
	skill := tTestSkill()
	skill.InputDataTypes = []catalog.DataType{catalog.DataNumerical}

	features := twoSampleFeatures()
	features.DataTypes = []catalog.DataType{catalog.DataNumerical, catalog.DataCategorical}

	score, reason, mismatch := m.scoreDataTypes(skill, features, nil)
	assert.Equal(t, 0.6, score)
	assert.Contains(t, reason, "partially compatible")
	assert.Empty(t, mismatch)
}

func TestScoreDataTypes_UnspecifiedIsNeutral(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())
	skill := tTestSkill()
	skill.InputDataTypes = nil

	score, reason, mismatch := m.scoreDataTypes(skill, twoSampleFeatures(), nil)
	assert.Equal(t, 0.5, score)
	assert.Empty(t, reason)
	assert.Empty(t, mismatch)
}

func TestScoreOutputFormat(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())

	skill := tTestSkill()
	skill.OutputFormat = "table"
	score, _, mismatch := m.scoreOutputFormat(skill, problem.FormatTable)
	assert.Equal(t, 1.0, score)
	assert.Empty(t, mismatch)

	// Keyword fallback.
	plotter := &catalog.Skill{
		ID: "histogram", Name: "Histogram",
		Category:    catalog.CategoryVisualization,
		Description: "Plot a distribution chart",
		Confidence:  1.0,
	}
	score, reason, mismatch := m.scoreOutputFormat(plotter, problem.FormatPlot)
	assert.Equal(t, 0.8, score)
	assert.Contains(t, reason, "can produce plot output")
	assert.Empty(t, mismatch)

	// Uncertain format is advisory, not disqualifying.
	score, _, mismatch = m.scoreOutputFormat(tTestSkill(), problem.FormatHeatmap)
	assert.Equal(t, 0.5, score)
	assert.Equal(t, "output format compatibility uncertain", mismatch)
}

func TestScoreTags_UseCaseFallback(t *testing.T) {
	m := NewMatcher(DefaultMatcherTables())
	skill := tTestSkill()
	skill.Tags = []string{"unrelated"}
	skill.UseCases = []string{"Comparison of treatment groups"}

	features := twoSampleFeatures()
	features.ContextKeywords = []string{"treatment"}

	score, reason := m.scoreTags(skill, features)
	assert.Equal(t, 0.6, score)
	assert.Contains(t, reason, "use case relevant")
}

func TestFilterByMinScore(t *testing.T) {
	results := []MatchResult{
		{Score: 0.9},
		{Score: 0.4},
		{Score: 0.2},
	}
	filtered := FilterByMinScore(results, 0.4)
	require.Len(t, filtered, 2)
	assert.Equal(t, 0.9, filtered[0].Score)
	assert.Equal(t, 0.4, filtered[1].Score)
}
