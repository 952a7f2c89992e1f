package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/flagrecon/pkg/types"
)

var allEnv = []string{EnvConfig, EnvThreshold, EnvEncoding, EnvPlaceholder, EnvWorkers, EnvLogLevel}

// isolate runs the test in an empty directory with every FLAGRECON_*
// variable unset, restoring them afterwards.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.51, cfg.Threshold)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, "?", cfg.Placeholder)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "flagrecon.yaml", `
threshold: 0.6
encoding: CP1252
placeholder: "_"
workers: 4
log_level: warn
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.Threshold)
	assert.Equal(t, "windows-1252", cfg.Encoding)
	assert.Equal(t, "_", cfg.Placeholder)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "c.yaml", "threshold: 0.9\n")
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Threshold)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "c.yaml", "threshold: 0.6\nworkers: 2\n")
	t.Setenv(EnvThreshold, "0.75")
	t.Setenv(EnvEncoding, "hex")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Threshold)
	assert.Equal(t, "hex", cfg.Encoding)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".env", "FLAGRECON_WORKERS=3\nFLAGRECON_PLACEHOLDER=*\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "*", cfg.Placeholder)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantIs  error
		wantMsg string
	}{
		{name: "threshold at one half", env: map[string]string{EnvThreshold: "0.5"}, wantIs: types.ErrThreshold},
		{name: "threshold not a number", env: map[string]string{EnvThreshold: "high"}, wantMsg: EnvThreshold},
		{name: "workers not a number", env: map[string]string{EnvWorkers: "many"}, wantMsg: EnvWorkers},
		{name: "negative workers", env: map[string]string{EnvWorkers: "-2"}, wantMsg: "workers"},
		{name: "unknown encoding", env: map[string]string{EnvEncoding: "utf-7"}, wantMsg: "unknown encoding"},
		{name: "unknown log level", env: map[string]string{EnvLogLevel: "chatty"}, wantMsg: "unknown level"},
		{name: "bad yaml", file: "threshold: [1, 2\n", wantMsg: "parse"},
		{name: "yaml threshold too high", file: "threshold: 1.5\n", wantIs: types.ErrThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, dir, "c.yaml", tt.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load("does-not-exist.yaml")
	assert.ErrorIs(t, err, types.ErrSourceNotFound)
}
