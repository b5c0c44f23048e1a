package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adalundhe/savant/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, "skills", cfg.Catalog.Dir)
	assert.Equal(t, "balanced", cfg.Recommend.RankingMethod)
	assert.Equal(t, 10, cfg.Recommend.TopK)
	assert.Equal(t, 5, cfg.Recommend.MaxRecommendations)
	assert.Equal(t, 5, cfg.Recommend.MaxAlternatives)
	assert.Empty(t, cfg.Usage.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  dir: /data/skills
recommend:
  ranking_method: popularity
  top_k: 20
usage:
  path: /data/usage.db
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/skills", cfg.Catalog.Dir)
	assert.Equal(t, "popularity", cfg.Recommend.RankingMethod)
	assert.Equal(t, 20, cfg.Recommend.TopK)
	// Unset fields keep their defaults.
	assert.Equal(t, 5, cfg.Recommend.MaxRecommendations)
	assert.Equal(t, "/data/usage.db", cfg.Usage.Path)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{broken: ["), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Recommend.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Recommend.MaxRecommendations = -1
	assert.Error(t, cfg.Validate())
}

func TestMerge(t *testing.T) {
	base := config.DefaultConfig()
	base.Merge(&config.Config{
		Recommend: config.RecommendConfig{MaxAlternatives: 3},
	})

	assert.Equal(t, 3, base.Recommend.MaxAlternatives)
	assert.Equal(t, 10, base.Recommend.TopK)
	assert.Equal(t, "skills", base.Catalog.Dir)
}
