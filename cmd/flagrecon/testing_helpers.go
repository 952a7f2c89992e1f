package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/flagrecon/internal/config"
)

// isolateEnv runs the test from an empty directory with every FLAGRECON_*
// variable unset so a developer's .env or shell cannot leak in.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		config.EnvConfig, config.EnvThreshold, config.EnvEncoding,
		config.EnvPlaceholder, config.EnvWorkers, config.EnvLogLevel,
	} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unsetenv %s: %v", k, err)
		}
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// writeSamples writes one sample per line and returns the file path.
func writeSamples(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "outputs.txt")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write samples: %v", err)
	}
	return path
}

// runCLI executes the CLI in-process and returns exit code, stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
