package recommend

import (
	"fmt"
	"testing"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineSnapshot() []*catalog.Skill {
	cleaning := &catalog.Skill{
		ID:          "data-cleaning",
		Name:        "Data Cleaning",
		Category:    catalog.CategoryDataAnalysis,
		Description: "Clean and preprocess raw data",
		Confidence:  0.9,
	}
	return []*catalog.Skill{tTestSkill(), mannWhitneySkill(), sentimentSkill(), cleaning}
}

func TestRecommend_FullPass(t *testing.T) {
	e := NewEngine(nil)

	result, err := e.Recommend(
		engineSnapshot(),
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		DefaultOptions(),
	)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)

	top := result.Recommendations[0]
	assert.Equal(t, "t-test", top.Skill.ID)
	assert.Equal(t, 1, top.RankingPosition)

	require.NotNil(t, result.Chain)
	assert.Greater(t, result.Chain.TotalSteps, 0)
	foundCore := false
	for _, step := range result.Chain.Steps {
		if step.StepType == StepCoreAnalysis {
			foundCore = true
			assert.Equal(t, "t-test", step.Skill.ID)
		}
	}
	assert.True(t, foundCore)

	require.NotNil(t, result.Alternatives)
	altIDs := make([]string, 0, len(result.Alternatives.Alternatives))
	for _, alt := range result.Alternatives.Alternatives {
		altIDs = append(altIDs, alt.Skill.ID)
	}
	assert.Contains(t, altIDs, "mann-whitney")

	assert.Equal(t, "T-Test", result.Comparison.TopSkill)
}

func TestRecommend_EmptySnapshot(t *testing.T) {
	e := NewEngine(nil)

	result, err := e.Recommend(
		nil,
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		DefaultOptions(),
	)
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Nil(t, result.Chain)
	assert.Nil(t, result.Alternatives)
	assert.Zero(t, result.Comparison.Count)
}

func TestRecommend_InvalidRankingMethod(t *testing.T) {
	e := NewEngine(nil)

	opts := DefaultOptions()
	opts.RankingMethod = RankingMethod("bogus")
	_, err := e.Recommend(
		engineSnapshot(),
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		opts,
	)
	assert.Error(t, err)
}

func TestRecommend_ZeroOptionsUseDefaults(t *testing.T) {
	e := NewEngine(nil)

	snapshot := engineSnapshot()
	for i := 0; i < 8; i++ {
		s := tTestSkill()
		s.ID = fmt.Sprintf("variant-%d", i)
		s.Name = fmt.Sprintf("Variant %d", i)
		snapshot = append(snapshot, s)
	}

	result, err := e.Recommend(
		snapshot,
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		Options{},
	)
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, DefaultOptions().MaxRecommendations)
	require.NotNil(t, result.Alternatives)
	assert.LessOrEqual(t, len(result.Alternatives.Alternatives), DefaultOptions().MaxAlternatives)
}

func TestRecommend_PopularityUsesHistory(t *testing.T) {
	e := NewEngine(nil)

	opts := DefaultOptions()
	opts.RankingMethod = RankPopularity
	opts.UsageHistory = map[string]int{"mann-whitney": 25, "t-test": 1}

	result, err := e.Recommend(
		engineSnapshot(),
		twoSampleFeatures(),
		problem.TypeTwoSampleTest,
		nil,
		problem.FormatUnknown,
		opts,
	)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "mann-whitney", result.Recommendations[0].Skill.ID)
}

func TestEngine_ComponentAccessors(t *testing.T) {
	e := NewEngine(nil)
	assert.NotNil(t, e.Matcher())
	assert.NotNil(t, e.PrereqChecker())
	assert.NotNil(t, e.ChainBuilder())
	assert.NotNil(t, e.AlternativeFinder())
}
