package session

import (
	"context"
	"fmt"
	"log/slog"

	"reelcut/internal/blob"
	"reelcut/internal/config"
	"reelcut/internal/journal"
	"reelcut/internal/logging"
	"reelcut/internal/metrics"
	"reelcut/internal/projectfile"
	"reelcut/internal/typing"
)

// Environment holds the dependencies shared by sessions.
type Environment struct {
	Config  *config.Config
	Files   *projectfile.Files
	Journal *journal.Journal // nil when journaling is disabled
	Metrics *metrics.Metrics // nil when metrics are disabled
	Logger  *slog.Logger
}

// NewEnvironment opens storage, the journal, and metrics per cfg.
func NewEnvironment(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Environment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("session: config required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	store, err := blob.Open(ctx, cfg.Storage, cfg.Paths.ProjectsDir)
	if err != nil {
		return nil, fmt.Errorf("open project storage: %w", err)
	}
	env := &Environment{
		Config: cfg,
		Files:  projectfile.New(store, logger),
		Logger: logger,
	}
	if cfg.Journal.Enabled {
		j, err := journal.Open(ctx, journal.Options{
			Driver: cfg.Journal.Driver,
			Path:   cfg.Journal.Path,
			DSN:    cfg.Journal.DSN,
		})
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		env.Journal = j
	}
	if cfg.Metrics.Enabled {
		env.Metrics = metrics.New(cfg.Metrics.Namespace)
	}
	logger.Debug("session environment ready",
		logging.String("storage", string(store.Driver())),
		logging.Bool("journal", env.Journal != nil),
		logging.Bool("metrics", env.Metrics != nil),
	)
	return env, nil
}

// TypingOptions returns the configured typing detection options.
func (e *Environment) TypingOptions() typing.Options {
	if e.Config == nil {
		return typing.DefaultOptions()
	}
	t := e.Config.Editor.Typing
	return typing.Options{MinKeys: t.MinKeys, MaxGapMs: t.MaxGapMs, SpeedMultiplier: t.SpeedMultiplier}
}

// Close releases the journal and writes the final metrics textfile.
func (e *Environment) Close() error {
	var firstErr error
	if e.Metrics != nil && e.Config != nil && e.Config.Metrics.TextfilePath != "" {
		if err := e.Metrics.WriteTextfile(e.Config.Metrics.TextfilePath); err != nil {
			firstErr = err
		}
	}
	if e.Journal != nil {
		if err := e.Journal.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
