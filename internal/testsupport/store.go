package testsupport

import (
	"context"
	"testing"

	"reelcut/internal/blob"
	"reelcut/internal/config"
	"reelcut/internal/journal"
	"reelcut/internal/logging"
	"reelcut/internal/projectfile"
	"reelcut/internal/timeline"
)

// MustOpenJournal opens the configured journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Journal {
	t.Helper()

	j, err := journal.Open(context.Background(), journal.Options{
		Driver: cfg.Journal.Driver,
		Path:   cfg.Journal.Path,
		DSN:    cfg.Journal.DSN,
	})
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = j.Close()
	})
	return j
}

// MustOpenFiles opens the configured blob store wrapped in projectfile.Files.
func MustOpenFiles(t testing.TB, cfg *config.Config) *projectfile.Files {
	t.Helper()

	store, err := blob.Open(context.Background(), cfg.Storage, cfg.Paths.ProjectsDir)
	if err != nil {
		t.Fatalf("blob.Open: %v", err)
	}
	return projectfile.New(store, logging.NewNop())
}

// SaveProject stores project under name.
func SaveProject(t testing.TB, files *projectfile.Files, name string, project *timeline.Project) {
	t.Helper()

	if _, err := files.Save(context.Background(), name, project); err != nil {
		t.Fatalf("save project %s: %v", name, err)
	}
}
