package testsupport

import (
	"path/filepath"
	"testing"

	"arteria/internal/config"
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
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

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

// WithGraceMinutes sets the completion marker grace period.
func WithGraceMinutes(minutes int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runfolder.CompletedMarkerGraceMinutes = minutes
	}
}

// WithInstrument sets the completion marker resolver setting.
func WithInstrument(value string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runfolder.Instrument = value
	}
}

// WithHistory toggles the transition ledger.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithRunfolderDirectories sets the monitored runfolder roots.
func WithRunfolderDirectories(dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runfolder.Directories = dirs
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
