// Package helpers provides shared utilities for healthsync integration tests.
package helpers

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rshade/healthsync/internal/cli"
	"github.com/rshade/healthsync/internal/config"
)

// CLIHelper executes healthsync commands in-process against an isolated
// cache directory and config file, so tests never touch the real
// ~/.healthsync state.
type CLIHelper struct {
	t          *testing.T
	ConfigPath string
	CacheDir   string
}

// NewCLIHelper creates a helper with a throwaway cache dir and config path.
func NewCLIHelper(t *testing.T) *CLIHelper {
	t.Helper()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	t.Setenv(config.EnvCacheDir, cacheDir)
	t.Setenv(config.EnvPrefetchDelay, "1")

	return &CLIHelper{
		t:          t,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		CacheDir:   cacheDir,
	}
}

// Execute runs the CLI with the given arguments plus the helper's isolated
// config path, returning combined stdout/stderr output.
func (h *CLIHelper) Execute(args ...string) (string, error) {
	h.t.Helper()

	full := append([]string{"--config", h.ConfigPath}, args...)

	root := cli.NewRootCmd("integration-test")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(full)

	err := root.Execute()
	return buf.String(), err
}
