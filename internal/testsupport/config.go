package testsupport

import (
	"path/filepath"
	"testing"

	"collator/internal/config"
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
	cfgVal.Paths.ModelDir = filepath.Join(base, "models")
	cfgVal.Paths.OutputDir = filepath.Join(base, "collated")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "ledger.db")
	cfgVal.Logging.File = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	MkdirAll(t, builder.cfg.Paths.ModelDir)
	return builder.cfg
}

// WithOptThin switches the config to optically thin mode.
func WithOptThin() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Collate.Mode = config.ModeOptThin
	}
}

// WithExtinction enables self-extinction correction.
func WithExtinction() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Collate.Extinction = true
	}
}

// WithOverwrite permits replacing existing records.
func WithOverwrite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Collate.Overwrite = true
	}
}

// WithDisabled replaces the list of disabled components.
func WithDisabled(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Collate.Disabled = append([]string(nil), names...)
	}
}

// WithWorkers sets the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ModelDir)
}
