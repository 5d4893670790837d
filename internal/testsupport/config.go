package testsupport

import (
	"path/filepath"
	"testing"

	"reelcut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Storage uses the fs driver and the journal a SQLite file under the same
// temp root.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.ProjectsDir = filepath.Join(base, "projects")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Storage.Driver = config.StorageFS
	cfgVal.Journal.Enabled = true
	cfgVal.Journal.Driver = config.JournalSQLite
	cfgVal.Journal.Path = filepath.Join(base, "journal.db")
	cfgVal.Metrics.TextfilePath = filepath.Join(base, "metrics", "reelcut.prom")

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

// WithStorageDriver overrides the blob driver.
func WithStorageDriver(driver string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Driver = driver
	}
}

// WithoutJournal disables the command journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithMetrics enables the metrics textfile.
func WithMetrics() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Enabled = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}
