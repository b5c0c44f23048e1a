package catalog_test

import (
	"testing"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSkill(id string, category catalog.Category, tags ...string) *catalog.Skill {
	return &catalog.Skill{
		ID:          id,
		Name:        "Skill " + id,
		Category:    category,
		Tags:        tags,
		Description: "description for " + id,
		Confidence:  1.0,
	}
}

func TestRegister_AddsSkill(t *testing.T) {
	c := catalog.New()

	err := c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.NotNil(t, c.Get("t-test"))
}

func TestRegister_RejectsDuplicateID(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod)))

	err := c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod))
	assert.ErrorContains(t, err, "duplicate skill id")
	assert.Equal(t, 1, c.Len())
}

func TestRegister_RejectsInvalidSkill(t *testing.T) {
	c := catalog.New()

	tests := []struct {
		name  string
		skill *catalog.Skill
	}{
		{"missing id", &catalog.Skill{Name: "x", Category: catalog.CategoryAlgorithm}},
		{"missing name", &catalog.Skill{ID: "x", Category: catalog.CategoryAlgorithm}},
		{"unknown category", &catalog.Skill{ID: "x", Name: "x", Category: "bogus"}},
		{"confidence out of range", &catalog.Skill{
			ID: "x", Name: "x", Category: catalog.CategoryAlgorithm, Confidence: 1.5,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, c.Register(tt.skill))
		})
	}
}

func TestGet_ReturnsNilForUnknownID(t *testing.T) {
	c := catalog.New()
	assert.Nil(t, c.Get("nope"))
}

func TestSnapshot_PreservesRegistrationOrder(t *testing.T) {
	c := catalog.New()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, c.Register(newSkill(id, catalog.CategoryAlgorithm)))
	}

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "zeta", snapshot[0].ID)
	assert.Equal(t, "alpha", snapshot[1].ID)
	assert.Equal(t, "mid", snapshot[2].ID)
}

func TestSnapshot_SurvivesLaterMutation(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("a", catalog.CategoryAlgorithm)))

	snapshot := c.Snapshot()
	require.NoError(t, c.Register(newSkill("b", catalog.CategoryAlgorithm)))
	c.Remove("a")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "a", snapshot[0].ID)
}

func TestGetByCategory(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod)))
	require.NoError(t, c.Register(newSkill("histogram", catalog.CategoryVisualization)))

	stats := c.GetByCategory(catalog.CategoryStatisticalMethod)
	require.Len(t, stats, 1)
	assert.Equal(t, "t-test", stats[0].ID)
	assert.Empty(t, c.GetByCategory(catalog.CategoryAlgorithm))
}

func TestGetByTag_IsCaseInsensitive(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod, "Parametric")))

	assert.Len(t, c.GetByTag("parametric"), 1)
	assert.Len(t, c.GetByTag("PARAMETRIC"), 1)
	assert.Empty(t, c.GetByTag("nonparametric"))
}

func TestGetByTagPattern(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod, "hypothesis-testing")))
	require.NoError(t, c.Register(newSkill("anova", catalog.CategoryStatisticalMethod, "hypothesis-testing", "parametric")))
	require.NoError(t, c.Register(newSkill("k-means", catalog.CategoryStatisticalMethod, "clustering")))

	matched, err := c.GetByTagPattern("hypothesis-*")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	// Sorted by id.
	assert.Equal(t, "anova", matched[0].ID)
	assert.Equal(t, "t-test", matched[1].ID)
}

func TestGetByTagPattern_InvalidPattern(t *testing.T) {
	c := catalog.New()
	_, err := c.GetByTagPattern("[")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod, "parametric")))

	assert.True(t, c.Remove("t-test"))
	assert.False(t, c.Remove("t-test"))
	assert.Nil(t, c.Get("t-test"))
	assert.Empty(t, c.GetByTag("parametric"))
	assert.Empty(t, c.GetByCategory(catalog.CategoryStatisticalMethod))
}

func TestReplace_SwapsContents(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("old", catalog.CategoryAlgorithm)))

	err := c.Replace([]*catalog.Skill{
		newSkill("new-a", catalog.CategoryStatisticalMethod),
		newSkill("new-b", catalog.CategoryVisualization),
	})
	require.NoError(t, err)

	assert.Nil(t, c.Get("old"))
	assert.NotNil(t, c.Get("new-a"))
	assert.Equal(t, 2, c.Len())
}

func TestReplace_RejectsInvalidSet(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("keep", catalog.CategoryAlgorithm)))

	err := c.Replace([]*catalog.Skill{
		newSkill("dup", catalog.CategoryAlgorithm),
		newSkill("dup", catalog.CategoryAlgorithm),
	})
	require.Error(t, err)

	// Original contents untouched on failure.
	assert.NotNil(t, c.Get("keep"))
}

func TestStats(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Register(newSkill("t-test", catalog.CategoryStatisticalMethod, "parametric")))
	require.NoError(t, c.Register(newSkill("histogram", catalog.CategoryVisualization, "plot")))
	require.NoError(t, c.Register(newSkill("quicksort", catalog.CategoryAlgorithm)))

	stats := c.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByCategory["statistical_method"])
	assert.Equal(t, 2, stats.ByTypeGroup[catalog.GroupProblemSolving])
	assert.Equal(t, 1, stats.ByTypeGroup[catalog.GroupProgramming])
	assert.Equal(t, 2, stats.TagCount)
}

func TestCategoryTypeGroup(t *testing.T) {
	assert.Equal(t, catalog.GroupProblemSolving, catalog.CategoryStatisticalMethod.TypeGroup())
	assert.Equal(t, catalog.GroupProblemSolving, catalog.CategoryDataAnalysis.TypeGroup())
	assert.Equal(t, catalog.GroupProblemSolving, catalog.CategoryVisualization.TypeGroup())
	assert.Equal(t, catalog.GroupProgramming, catalog.CategoryAlgorithm.TypeGroup())
	assert.Equal(t, catalog.GroupProgramming, catalog.CategoryMathematicalImplementation.TypeGroup())
}

func TestSkillHasTag(t *testing.T) {
	skill := newSkill("t-test", catalog.CategoryStatisticalMethod, "Parametric")
	assert.True(t, skill.HasTag("parametric"))
	assert.False(t, skill.HasTag("robust"))
}

func TestSkillSearchText(t *testing.T) {
	skill := &catalog.Skill{
		ID:          "t-test",
		Name:        "T-Test",
		Category:    catalog.CategoryStatisticalMethod,
		Tags:        []string{"Parametric"},
		Description: "Compare Two Means",
		Confidence:  1.0,
	}
	text := skill.SearchText()
	assert.Contains(t, text, "t-test")
	assert.Contains(t, text, "compare two means")
	assert.Contains(t, text, "parametric")
}
