package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelcut/internal/projectfile"
	"reelcut/internal/timeline"
)

// WriteProjectFile encodes project as JSON at path, creating parent
// directories as needed.
func WriteProjectFile(t testing.TB, path string, project *timeline.Project) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := projectfile.Encode(f, project); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
