package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	info, err := store.Put(ctx, "projects/demo.json", strings.NewReader(`{"v":1}`), PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != 7 || info.Key != "projects/demo.json" {
		t.Fatalf("unexpected info: %+v", info)
	}

	// Put overwrites.
	if _, err := store.Put(ctx, "projects/demo.json", strings.NewReader(`{"v":2}`), PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := store.Put(ctx, "projects/other.json", strings.NewReader(`{}`), PutOptions{}); err != nil {
		t.Fatalf("Put other: %v", err)
	}

	got, rc, err := store.Get(ctx, "projects/demo.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != `{"v":2}` {
		t.Fatalf("unexpected body %q", data)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", got.ContentType)
	}

	head, err := store.Head(ctx, "projects/demo.json")
	if err != nil || head.Size != 7 {
		t.Fatalf("Head = %+v, %v", head, err)
	}

	infos, err := store.List(ctx, "projects/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "projects/demo.json" || infos[1].Key != "projects/other.json" {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	existed, err := store.Delete(ctx, "projects/demo.json")
	if err != nil || !existed {
		t.Fatalf("Delete = %v, %v", existed, err)
	}
	existed, err = store.Delete(ctx, "projects/demo.json")
	if err != nil || existed {
		t.Fatalf("second Delete = %v, %v", existed, err)
	}
	if _, _, err := store.Get(ctx, "projects/demo.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
	if _, err := store.Head(ctx, "projects/demo.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Head after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	if store.Driver() != DriverMemory {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
	exerciseStore(t, store)
}

func TestFilesystemStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystem(root)
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	exerciseStore(t, store)

	entries, err := os.ReadDir(filepath.Join(root, "projects"))
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestRejectsUnsafeKeys(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	for _, key := range []string{"", "/etc/passwd", "../escape.json"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{}); err == nil {
			t.Errorf("Put(%q) succeeded, want error", key)
		}
	}
}

func TestFilesystemRespectsCanceledContext(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	// Another handle on the same lock file simulates a second process.
	holder, err := NewFilesystem(store.Root())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	if ok, err := holder.lock.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	defer func() { _ = holder.lock.Unlock() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "a.json", strings.NewReader("{}"), PutOptions{}); err == nil {
		t.Fatal("expected lock acquisition to fail with canceled context")
	}
}
