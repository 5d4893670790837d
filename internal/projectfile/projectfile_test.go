package projectfile_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reelcut/internal/blob"
	"reelcut/internal/logging"
	"reelcut/internal/projectfile"
	"reelcut/internal/testsupport"
	"reelcut/internal/timeline"
)

var saveTime = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func newFiles(t *testing.T) (*projectfile.Files, *blob.Memory, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger, err := logging.NewWithWriter(&logs, logging.Options{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store := blob.NewMemory()
	files := projectfile.New(store, logger, projectfile.WithClock(func() time.Time { return saveTime }))
	return files, store, &logs
}

func TestSaveAndLoad(t *testing.T) {
	files, store, _ := newFiles(t)
	ctx := context.Background()
	project := testsupport.NewProject(t)

	info, err := files.Save(ctx, "demo", project)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if info.Key != "demo.json" || info.ContentType != projectfile.ContentType {
		t.Fatalf("unexpected blob info: %+v", info)
	}
	if project.ModifiedAt != "2026-05-04T10:30:00Z" {
		t.Fatalf("modifiedAt not stamped: %q", project.ModifiedAt)
	}
	if _, err := store.Head(ctx, "demo.json"); err != nil {
		t.Fatalf("expected stored blob: %v", err)
	}

	loaded, err := files.Load(ctx, "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Clips()) != 3 || loaded.Timeline.Duration != 12000 {
		t.Fatalf("unexpected loaded project: %d clips, duration %v", len(loaded.Clips()), loaded.Timeline.Duration)
	}
	zoom := loaded.Timeline.Effects[0]
	if zoom.ID != "zoom-1" || zoom.Data["scale"] != 2.0 {
		t.Fatalf("unexpected zoom effect: %+v", zoom)
	}
}

func TestLoadRepairsGap(t *testing.T) {
	files, _, logs := newFiles(t)
	ctx := context.Background()
	project := testsupport.NewProject(t, func(p *timeline.Project) {
		p.Timeline.Tracks[0].Clips[2].StartTime = 7500
	})
	if _, err := files.Save(ctx, "gappy", project); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := files.Load(ctx, "gappy")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loaded.Check(); err != nil {
		t.Fatalf("loaded project still invalid: %v", err)
	}
	clipC := loaded.Timeline.Tracks[0].Clips[2]
	if clipC.StartTime != 7000 {
		t.Fatalf("clip-c start = %v, want 7000", clipC.StartTime)
	}
	zoom := loaded.Timeline.Effects[0]
	if zoom.StartTime != 7500 || zoom.EndTime != 8500 {
		t.Fatalf("zoom should follow clip-c, got %v-%v", zoom.StartTime, zoom.EndTime)
	}
	out := logs.String()
	if !strings.Contains(out, `"event_type":"project_repaired"`) || !strings.Contains(out, `"project":"gappy"`) {
		t.Fatalf("expected repair warning, got %s", out)
	}
}

func TestLoadExtendsShortDuration(t *testing.T) {
	files, _, _ := newFiles(t)
	ctx := context.Background()
	project := testsupport.NewProject(t, func(p *timeline.Project) {
		p.Timeline.Duration = 9000
	})
	if _, err := files.Save(ctx, "short", project); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := files.Load(ctx, "short")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Timeline.Duration != 12000 {
		t.Fatalf("duration = %v, want 12000", loaded.Timeline.Duration)
	}
}

func TestLoadRejectsBrokenEffect(t *testing.T) {
	files, _, _ := newFiles(t)
	ctx := context.Background()
	project := testsupport.NewProject(t, func(p *timeline.Project) {
		p.Timeline.Effects[0].EndTime = p.Timeline.Effects[0].StartTime
	})
	if _, err := files.Save(ctx, "broken", project); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := files.Load(ctx, "broken"); !errors.Is(err, timeline.ErrInvariant) {
		t.Fatalf("Load = %v, want ErrInvariant", err)
	}
}

func TestLoadMissing(t *testing.T) {
	files, _, _ := newFiles(t)
	if _, err := files.Load(context.Background(), "nope"); !errors.Is(err, projectfile.ErrNotFound) {
		t.Fatalf("Load = %v, want ErrNotFound", err)
	}
}

func TestListAndExists(t *testing.T) {
	files, store, _ := newFiles(t)
	ctx := context.Background()
	for _, name := range []string{"b", "a"} {
		if _, err := files.Save(ctx, name, testsupport.NewProject(t)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	if _, err := store.Put(ctx, "notes.txt", strings.NewReader("x"), blob.PutOptions{}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	names, err := files.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if strings.Join(names, ",") != "a,b" {
		t.Fatalf("unexpected names %v", names)
	}
	if ok, err := files.Exists(ctx, "a.json"); err != nil || !ok {
		t.Fatalf("Exists(a.json) = %v, %v", ok, err)
	}
	if ok, err := files.Exists(ctx, "zzz"); err != nil || ok {
		t.Fatalf("Exists(zzz) = %v, %v", ok, err)
	}
	if _, err := projectfile.Key("  "); err == nil {
		t.Fatal("expected error for blank name")
	}
}
