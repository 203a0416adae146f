// Package config_test tests configuration loading, merging hierarchy, and environment variable overrides.
// Related: internal/config/config.go
// Tags: config, loading, merging, env-vars, json, precedence
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at an empty directory so a real global config
// is never read. NO t.Parallel() in callers.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, 300, cfg.WatchDebounceMs)
	assert.Equal(t, []string{".*", "*~", "*.swp"}, cfg.WatchIgnore)
}

func TestLoad_MissingLocalFile(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_LocalOverride(t *testing.T) {
	isolateHome(t)

	path := writeConfig(t, t.TempDir(), `{
		"workers": 8,
		"output_dir": "build/json",
		"log_level": "DEBUG",
		"watch_ignore": ["*.bak"]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "build/json", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"*.bak"}, cfg.WatchIgnore)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestLoad_OverridePrecedence(t *testing.T) {
	home := isolateHome(t)

	writeConfig(t, filepath.Join(home, ".mongdata"), `{"workers": 2, "data_dir": "global-data", "output_dir": "global-out"}`)
	local := writeConfig(t, t.TempDir(), `{"workers": 3, "output_dir": "local-out"}`)
	t.Setenv("MONGDATA_WORKERS", "5")

	cfg, err := Load(local)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers, "env beats local")
	assert.Equal(t, "local-out", cfg.OutputDir, "local beats global")
	assert.Equal(t, "global-data", cfg.DataDir, "global beats defaults")
}

func TestLoad_EnvOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv("MONGDATA_DATA_DIR", "/srv/glyphs")
	t.Setenv("MONGDATA_SHOW_PROGRESS", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/glyphs", cfg.DataDir)
	assert.False(t, cfg.ShowProgress)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantField string
		wantMsg   string
	}{
		"workers too low": {
			content:   `{"workers": 0}`,
			wantField: "workers",
			wantMsg:   "must be at least 1",
		},
		"workers too high": {
			content:   `{"workers": 65}`,
			wantField: "workers",
			wantMsg:   "must be at most 64",
		},
		"empty data dir": {
			content:   `{"data_dir": ""}`,
			wantField: "data_dir",
			wantMsg:   "is required",
		},
		"unknown log level": {
			content:   `{"log_level": "trace"}`,
			wantField: "log_level",
			wantMsg:   "must be one of: debug info warn error",
		},
		"debounce too short": {
			content:   `{"watch_debounce_ms": 10}`,
			wantField: "watch_debounce_ms",
			wantMsg:   "must be at least 50",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateHome(t)
			path := writeConfig(t, t.TempDir(), tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMsg, vErr.Message)
			assert.Equal(t, path, vErr.FilePath)
		})
	}
}

func TestLoad_InvalidSyntax(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), "{\n  \"workers\": 2,\n}")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load local config")

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 3, vErr.Line)
}

func TestLoad_InvalidGlobalSyntax(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".mongdata"), `{"workers": }`)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load global config")
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := isolateHome(t)
	path := writeConfig(t, t.TempDir(), `{"data_dir": "~/glyphs"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "glyphs"), cfg.DataDir)
}

func TestExpandHomePath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		contains string
	}{
		"tilde prefix": {
			input:    "~/.mongdata/data",
			contains: ".mongdata/data",
		},
		"absolute path": {
			input:    "/absolute/path",
			contains: "/absolute/path",
		},
		"relative path": {
			input:    "./relative/path",
			contains: "./relative/path",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result := expandHomePath(tc.input)
			assert.Contains(t, result, tc.contains)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"simple":     {input: "MONGDATA_WORKERS", want: "workers"},
		"underscore": {input: "MONGDATA_WATCH_DEBOUNCE_MS", want: "watch_debounce_ms"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envTransform(tt.input))
		})
	}
}
