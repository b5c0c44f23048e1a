package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Skill File Loading
// =============================================================================
//
// Skills are defined as YAML metadata files, one per skill, under a skills
// directory. A file may live either directly in the directory or in a
// per-skill subdirectory as skill.yaml. Loading is lenient by default: a
// malformed file is skipped with a warning rather than failing the whole
// catalog. LoaderConfig.Strict turns any malformed file into a load error.

// LoaderConfig configures skill file loading.
type LoaderConfig struct {
	// Dir is the root skills directory.
	Dir string

	// Strict makes any malformed skill file fail the load instead of being
	// skipped.
	Strict bool

	Logger *slog.Logger
}

// DefaultLoaderConfig returns sensible defaults.
func DefaultLoaderConfig(dir string) LoaderConfig {
	return LoaderConfig{
		Dir:    dir,
		Logger: slog.Default(),
	}
}

// LoadDir reads every skill file under cfg.Dir and returns the parsed skills
// sorted by id.
func LoadDir(cfg LoaderConfig) ([]*Skill, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := collectSkillFiles(cfg.Dir)
	if err != nil {
		return nil, err
	}

	skills := make([]*Skill, 0, len(paths))
	for _, path := range paths {
		skill, err := LoadFile(path)
		if err != nil {
			if cfg.Strict {
				return nil, err
			}
			logger.Warn("skipping malformed skill file", "path", path, "error", err)
			continue
		}
		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })
	logger.Info("loaded skill files", "dir", cfg.Dir, "count", len(skills))
	return skills, nil
}

// LoadFile parses a single skill YAML file.
func LoadFile(path string) (*Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill file: %w", err)
	}

	var skill Skill
	skill.Confidence = 1.0
	if err := yaml.Unmarshal(data, &skill); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	// Default the id to the file or directory name.
	if skill.ID == "" {
		skill.ID = inferID(path)
	}
	if err := skill.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &skill, nil
}

// LoadCatalog is a convenience that loads a directory straight into a fresh
// catalog.
func LoadCatalog(cfg LoaderConfig) (*Catalog, error) {
	skills, err := LoadDir(cfg)
	if err != nil {
		return nil, err
	}

	c := New()
	for _, skill := range skills {
		if err := c.Register(skill); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func collectSkillFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isSkillFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan skills dir: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func isSkillFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func inferID(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "skill" {
		// skill.yaml inside a per-skill directory: use the directory name.
		return filepath.Base(filepath.Dir(path))
	}
	return name
}
