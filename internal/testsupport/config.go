// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"stagehand/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Remote.BaseURL = "http://127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRemoteURL overrides the worker base URL on the test config.
func WithRemoteURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.BaseURL = url
	}
}

// WithCleanupPolicy overrides the harvest cleanup policy on the test config.
func WithCleanupPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Harvest.CleanupPolicy = policy
	}
}
