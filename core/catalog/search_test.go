package catalog_test

import (
	"testing"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixtures() []*catalog.Skill {
	return []*catalog.Skill{
		{
			ID:          "t-test",
			Name:        "T-Test",
			Category:    catalog.CategoryStatisticalMethod,
			Tags:        []string{"hypothesis-testing", "parametric"},
			Description: "Compare the means of two groups",
			UseCases:    []string{"A/B testing", "clinical trials"},
			Confidence:  1.0,
		},
		{
			ID:          "k-means",
			Name:        "K-Means Clustering",
			Category:    catalog.CategoryStatisticalMethod,
			Tags:        []string{"clustering", "unsupervised"},
			Description: "Partition observations into clusters",
			Confidence:  1.0,
		},
		{
			ID:          "histogram",
			Name:        "Histogram",
			Category:    catalog.CategoryVisualization,
			Tags:        []string{"plot"},
			Description: "Plot the distribution of a variable",
			Confidence:  1.0,
		},
	}
}

func TestSearchIndex_FindsByDescription(t *testing.T) {
	index, err := catalog.NewSearchIndex(searchFixtures())
	require.NoError(t, err)
	defer index.Close()

	hits, err := index.Search("clusters", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "k-means", hits[0].Skill.ID)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestSearchIndex_FindsByTag(t *testing.T) {
	index, err := catalog.NewSearchIndex(searchFixtures())
	require.NoError(t, err)
	defer index.Close()

	hits, err := index.Search("parametric", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "t-test", hits[0].Skill.ID)
}

func TestSearchIndex_RespectsLimit(t *testing.T) {
	index, err := catalog.NewSearchIndex(searchFixtures())
	require.NoError(t, err)
	defer index.Close()

	hits, err := index.Search("plot distribution clusters groups", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hits), 1)
}

func TestSearchIndex_ZeroLimit(t *testing.T) {
	index, err := catalog.NewSearchIndex(searchFixtures())
	require.NoError(t, err)
	defer index.Close()

	hits, err := index.Search("anything", 0)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestSearchIndex_NoMatches(t *testing.T) {
	index, err := catalog.NewSearchIndex(searchFixtures())
	require.NoError(t, err)
	defer index.Close()

	hits, err := index.Search("xylophone", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchIndex_EmptyCatalog(t *testing.T) {
	index, err := catalog.NewSearchIndex(nil)
	require.NoError(t, err)
	defer index.Close()

	hits, err := index.Search("anything", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
