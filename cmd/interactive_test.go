package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interactiveSkillYAML = `
id: t-test
name: T-Test
category: statistical_method
description: Compare the means of two groups
tags:
  - comparison
input_data_types:
  - numerical
confidence: 0.9
`

func writeInteractiveFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "t-test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(interactiveSkillYAML), 0o644))
	return dir
}

func runCommand(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestInteractive_RecommendsPerLine(t *testing.T) {
	dir := writeInteractiveFixture(t)

	out := runCommand(t,
		"compare two group means for a significant difference\n",
		"interactive", "--skills", dir, "--config", filepath.Join(dir, "missing.yaml"))

	assert.Contains(t, out, "T-Test")
	assert.Contains(t, out, "Detected type:")
}

func TestInteractive_SkipsBlankLines(t *testing.T) {
	dir := writeInteractiveFixture(t)

	out := runCommand(t,
		"\n   \n",
		"interactive", "--skills", dir, "--config", filepath.Join(dir, "missing.yaml"))

	assert.NotContains(t, out, "Detected type:")
}

func TestInteractive_WatchConfigStartsWatcher(t *testing.T) {
	dir := writeInteractiveFixture(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfgYAML := "catalog:\n  dir: " + dir + "\n  watch: true\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	// The watcher must start and shut down cleanly around the session.
	out := runCommand(t,
		"compare two group means\n",
		"interactive", "--skills", dir, "--config", cfgPath)

	assert.Contains(t, out, "T-Test")
}
