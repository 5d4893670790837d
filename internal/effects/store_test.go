package effects_test

import (
	"errors"
	"fmt"
	"testing"

	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

func newProject() *timeline.Project {
	return &timeline.Project{
		Recordings: []*timeline.Recording{{
			ID:       "rec-1",
			Duration: 10000,
			Effects: []*timeline.Effect{
				{ID: "legacy-zoom", Type: timeline.EffectZoom, StartTime: 1000, EndTime: 2000, Enabled: true},
			},
		}},
		Timeline: timeline.Timeline{
			Tracks: []*timeline.Track{{ID: "video", Type: timeline.TrackVideo, Clips: []*timeline.Clip{
				{ID: "clip-1", RecordingID: "rec-1", StartTime: 0, Duration: 4000, SourceIn: 0, SourceOut: 4000, PlaybackRate: 1},
			}}},
			Effects: []*timeline.Effect{
				{ID: "zoom-1", Type: timeline.EffectZoom, StartTime: 500, EndTime: 1500, Enabled: true, Data: timeline.Payload{"scale": 2.0}},
			},
		},
	}
}

func idSeq() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestFindPrefersTimelineThenRecording(t *testing.T) {
	project := newProject()

	loc, ok := effects.Find(project, "zoom-1")
	if !ok || loc.Scope != effects.ScopeTimeline {
		t.Fatalf("expected timeline scope, got %#v ok=%v", loc, ok)
	}
	loc, ok = effects.Find(project, "legacy-zoom")
	if !ok || loc.Scope != effects.ScopeRecording || loc.RecordingID != "rec-1" {
		t.Fatalf("expected recording scope, got %#v ok=%v", loc, ok)
	}
	if _, ok := effects.Find(project, "missing"); ok {
		t.Fatal("expected missing effect not to be found")
	}
}

func TestActiveAtUsesHalfOpenInterval(t *testing.T) {
	list := []*timeline.Effect{
		{ID: "a", Type: timeline.EffectZoom, StartTime: 0, EndTime: 1000, Enabled: true},
		{ID: "b", Type: timeline.EffectZoom, StartTime: 1000, EndTime: 2000, Enabled: true},
		{ID: "c", Type: timeline.EffectZoom, StartTime: 2000, EndTime: 3000, Enabled: false},
	}
	if got := effects.ActiveAt(list, timeline.EffectZoom, 1000); got == nil || got.ID != "b" {
		t.Fatalf("expected b at 1000, got %#v", got)
	}
	if got := effects.ActiveAt(list, timeline.EffectZoom, 2500); got != nil {
		t.Fatalf("expected disabled effect to be skipped, got %#v", got)
	}
	if got := effects.ActiveAt(list, timeline.EffectScreen, 500); got != nil {
		t.Fatalf("expected no screen effect, got %#v", got)
	}
}

func TestEnsureGlobalsIsIdempotent(t *testing.T) {
	project := newProject()
	next := idSeq()

	created := effects.EnsureGlobals(project, next)
	if len(created) != 2 {
		t.Fatalf("expected background and cursor to be created, got %d", len(created))
	}
	if again := effects.EnsureGlobals(project, next); len(again) != 0 {
		t.Fatalf("expected no new effects on second call, got %d", len(again))
	}
	if len(effects.OfType(project.Timeline.Effects, timeline.EffectBackground)) != 1 {
		t.Fatal("expected exactly one background")
	}
}

func TestAddEnforcesSingleEnabledSingleton(t *testing.T) {
	project := newProject()
	effects.EnsureGlobals(project, idSeq())

	replacement := &timeline.Effect{ID: "bg-2", Type: timeline.EffectBackground, StartTime: 0, EndTime: timeline.Unbounded, Enabled: true}
	if err := effects.Add(project, replacement); err != nil {
		t.Fatalf("Add: %v", err)
	}
	enabled := 0
	for _, eff := range effects.OfType(project.Timeline.Effects, timeline.EffectBackground) {
		if eff.Enabled {
			enabled++
			if eff.ID != "bg-2" {
				t.Fatalf("expected new background to stay enabled, got %s", eff.ID)
			}
		}
	}
	if enabled != 1 {
		t.Fatalf("expected one enabled background, got %d", enabled)
	}
}

func TestAddRejectsInvalidEffects(t *testing.T) {
	project := newProject()
	cases := []*timeline.Effect{
		{ID: "", Type: timeline.EffectZoom, StartTime: 0, EndTime: 1},
		{ID: "x", Type: "sparkle", StartTime: 0, EndTime: 1},
		{ID: "y", Type: timeline.EffectZoom, StartTime: 5, EndTime: 5},
	}
	for _, eff := range cases {
		if err := effects.Add(project, eff); !errors.Is(err, effects.ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %#v, got %v", eff, err)
		}
	}
	dup := &timeline.Effect{ID: "zoom-1", Type: timeline.EffectZoom, StartTime: 0, EndTime: 1}
	if err := effects.Add(project, dup); !errors.Is(err, effects.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestUpdateDeepMergesData(t *testing.T) {
	project := newProject()
	project.Timeline.Effects[0].Data = timeline.Payload{
		"scale":  2.0,
		"target": map[string]any{"x": 0.1, "y": 0.2},
	}
	end := 1800.0
	eff, err := effects.Update(project, "zoom-1", effects.Patch{
		EndTime: &end,
		Data:    timeline.Payload{"target": map[string]any{"y": 0.9}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if eff.EndTime != 1800 {
		t.Fatalf("expected end 1800, got %v", eff.EndTime)
	}
	target := eff.Data["target"].(map[string]any)
	if target["x"] != 0.1 || target["y"] != 0.9 {
		t.Fatalf("expected merged target, got %#v", target)
	}
	if eff.Data["scale"] != 2.0 {
		t.Fatalf("expected scale preserved, got %#v", eff.Data["scale"])
	}
}

func TestUpdateRejectsInvertedSpanWithoutMutation(t *testing.T) {
	project := newProject()
	start := 5000.0
	if _, err := effects.Update(project, "zoom-1", effects.Patch{StartTime: &start}); !errors.Is(err, effects.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if project.Timeline.Effects[0].StartTime != 500 {
		t.Fatal("rejected update mutated the effect")
	}
}

func TestRemoveFromRecordingScope(t *testing.T) {
	project := newProject()
	loc, err := effects.Remove(project, "legacy-zoom")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if loc.Scope != effects.ScopeRecording || len(project.Recordings[0].Effects) != 0 {
		t.Fatalf("expected legacy effect removed, got %#v", loc)
	}
	if _, err := effects.Remove(project, "legacy-zoom"); !errors.Is(err, effects.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second removal, got %v", err)
	}
}

func TestForClipCombinesScopes(t *testing.T) {
	project := newProject()
	effects.EnsureGlobals(project, idSeq())
	clip := project.Timeline.Tracks[0].Clips[0]

	got := effects.ForClip(project, clip)
	if len(got) != 2 {
		t.Fatalf("expected timeline and legacy zoom, got %d", len(got))
	}
	for _, eff := range got {
		if eff.Type.Singleton() {
			t.Fatalf("expected singletons to be excluded, got %s", eff.Type)
		}
	}
}

func TestInsertKeepsLookupOrder(t *testing.T) {
	project := newProject()
	first := project.Timeline.Effects[0]
	loc, err := effects.Remove(project, first.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := effects.Insert(project, first, loc.Index); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if project.Timeline.Effects[0] != first {
		t.Fatalf("effect reinserted at wrong slot: %s", project.Timeline.Effects[0].ID)
	}

	tail := &timeline.Effect{ID: "tail", Type: timeline.EffectScreen, StartTime: 0, EndTime: 10, Enabled: true}
	if err := effects.Insert(project, tail, 99); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if last := project.Timeline.Effects[len(project.Timeline.Effects)-1]; last != tail {
		t.Fatalf("out-of-range index should append, last = %s", last.ID)
	}
}
