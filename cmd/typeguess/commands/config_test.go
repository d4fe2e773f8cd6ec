package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typeguess.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
universe = ["a.yaml", "b.yaml"]
source = "1.4"
log_level = "debug"
`), 0o644))

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, Config{Universe: []string{"a.yaml", "b.yaml"}, Source: "1.4", LogLevel: "debug"}, cfg)

	cfg, err = LoadConfig(filepath.Join(dir, "missing.toml"), false)
	require.NoError(t, err)
	assert.Zero(t, cfg.Source)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"), true)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("source = \n"), 0o644))
	_, err = LoadConfig(bad, true)
	assert.ErrorContains(t, err, "parse config")
}

func TestConfigMerge(t *testing.T) {
	base := Config{Universe: []string{"a.yaml"}, Source: "1.8", LogLevel: "info"}
	got := base.Merge(Config{Universe: []string{"b.yaml"}, LogLevel: "debug"})
	assert.Equal(t, Config{Universe: []string{"a.yaml", "b.yaml"}, Source: "1.8", LogLevel: "debug"}, got)
	assert.Equal(t, []string{"a.yaml"}, base.Universe)
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"off", LevelOff},
	}
	for _, c := range cases {
		got, err := ParseLogLevel(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
	_, err := ParseLogLevel("loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestAllowModernKinds(t *testing.T) {
	cases := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"1.4", false},
		{"1", false},
		{"1.5", true},
		{"1.8", true},
		{"8", true},
		{"17", true},
	}
	for _, c := range cases {
		got, err := AllowModernKinds(c.level)
		require.NoError(t, err, c.level)
		assert.Equal(t, c.want, got, c.level)
	}
	_, err := AllowModernKinds("java8")
	assert.Error(t, err)
	_, err = AllowModernKinds("1.x")
	assert.Error(t, err)
}
