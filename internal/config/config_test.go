package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_Precedence(t *testing.T) {
	t.Setenv(DirEnv, "/from/env")

	got, err := Dir("/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", got)

	got, err = Dir("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", got)

	t.Setenv(DirEnv, "")
	t.Setenv("HOME", "/home/visitor")
	got, err = Dir("  ")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/visitor", dirName), got)
}

func TestEnsureDefault_WritesOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	wrote, err := EnsureDefault(dir)
	require.NoError(t, err)
	assert.True(t, wrote)

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultYAML, string(b))

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("catalog:\n  source: x.yaml\n"), 0o644))
	wrote, err = EnsureDefault(dir)
	require.NoError(t, err)
	assert.False(t, wrote, "existing file is left alone")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "data.json", cfg.CatalogSource)
	assert.Equal(t, 5500*time.Millisecond, cfg.EntryTimeout)
	assert.Equal(t, 7*time.Second, cfg.Tracking.Deadline)
	assert.Equal(t, 3, cfg.Tracking.RequiredSamples)
	assert.Equal(t, 9*time.Second, cfg.Performance.Warmup)
	assert.Equal(t, 15.0, cfg.Performance.MinFPS)
	assert.Equal(t, 1.75, cfg.Layout.MaxRadius)
	assert.Equal(t, 180*time.Millisecond, cfg.Layout.FloatStagger)
	assert.Equal(t, 60, cfg.Simulator.FPS)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_DefaultFileMatchesBuiltins(t *testing.T) {
	dir := t.TempDir()
	_, err := EnsureDefault(dir)
	require.NoError(t, err)

	fromFile, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), fromFile.Path)

	builtin, err := Load(t.TempDir())
	require.NoError(t, err)
	fromFile.Path = ""
	assert.Equal(t, builtin, fromFile)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := "catalog:\n  source: https://museum.example/data.json\nperformance:\n  min_fps: 24\nlayout:\n  max_radius: 2.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))
	t.Setenv("REVAR_SESSION_ENTRY_TIMEOUT", "6s")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://museum.example/data.json", cfg.CatalogSource)
	assert.Equal(t, 24.0, cfg.Performance.MinFPS)
	assert.Equal(t, 2.5, cfg.Layout.MaxRadius)
	assert.Equal(t, 6*time.Second, cfg.EntryTimeout)
	assert.Equal(t, 1.25, cfg.Layout.MinRadius, "unset keys keep defaults")

	sc := cfg.Session()
	assert.Equal(t, 6*time.Second, sc.EntryTimeout)
	assert.Equal(t, 24.0, sc.Performance.MinFPS)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "radius bounds", yaml: "layout:\n  min_radius: 3\n  max_radius: 2\n"},
		{name: "zero samples", yaml: "tracking:\n  required_samples: 0\n"},
		{name: "negative timeout", yaml: "session:\n  entry_timeout: -1s\n"},
		{name: "log level", yaml: "log:\n  level: loud\n"},
		{name: "broken yaml", yaml: "layout: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.yaml), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
