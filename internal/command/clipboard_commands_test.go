package command_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelcut/internal/command"
	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

func TestCopyPasteClipAfterPlayhead(t *testing.T) {
	ctx := context.Background()
	store, env, project := newSession(t)
	m := newManager(t)

	store.SelectClip("clip-a", false)
	mustSucceed(t, m.Execute(ctx, command.NewCopy(env)))
	if board := env.Clipboard(); board.Clip == nil || board.Clip.ID != "clip-a" || board.Effect != nil {
		t.Fatalf("clipboard = %+v", board)
	}

	before := snapshot(t, project)
	store.SetPlayhead(500)
	res := mustSucceed(t, m.Execute(ctx, command.NewPaste(env)))
	pastedID := res.Data.(string)
	if !strings.HasPrefix(pastedID, "clip-") || pastedID == "clip-a" {
		t.Fatalf("pasted id = %q", pastedID)
	}
	ids := clipIDs(project)
	if len(ids) != 4 || ids[1] != pastedID {
		t.Fatalf("paste position: %v", ids)
	}
	if project.Timeline.Duration != 16000 {
		t.Fatalf("duration = %v", project.Timeline.Duration)
	}
	assertLayout(t, project)

	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo paste did not restore the project")
	}
	res = mustSucceed(t, m.Redo(ctx))
	if res.Data.(string) != pastedID || clipIDs(project)[1] != pastedID {
		t.Fatal("redo paste should reuse the pasted id")
	}
}

func TestCutIsOneUndoableStep(t *testing.T) {
	ctx := context.Background()
	store, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	store.SelectClip("clip-b", false)
	mustSucceed(t, m.Execute(ctx, command.NewCut(env)))
	if board := env.Clipboard(); board.Clip == nil || board.Clip.ID != "clip-b" {
		t.Fatalf("clipboard after cut = %+v", board)
	}
	if got := strings.Join(clipIDs(project), ","); got != "clip-a,clip-c" {
		t.Fatalf("clips after cut = %s", got)
	}
	if n := len(m.History(ctx)); n != 1 {
		t.Fatalf("cut should be one history entry, got %d", n)
	}

	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo cut did not restore the project")
	}
	if !env.Clipboard().Empty() {
		t.Fatal("undo cut should restore the empty clipboard")
	}
}

func TestPasteBoundedEffectAtPlayhead(t *testing.T) {
	ctx := context.Background()
	store, env, project := newSession(t)
	m := newManager(t)

	store.SelectEffectLayer(&timeline.EffectLayer{Type: timeline.EffectZoom, ID: "zoom-1"})
	mustSucceed(t, m.Execute(ctx, command.NewCopy(env)))
	board := env.Clipboard()
	if board.Effect == nil || board.Clip != nil || board.Effect.Length != 1000 {
		t.Fatalf("clipboard = %+v", board)
	}

	before := snapshot(t, project)
	store.SetPlayhead(100)
	res := mustSucceed(t, m.Execute(ctx, command.NewPaste(env)))
	loc, ok := effects.Find(project, res.Data.(string))
	if !ok || loc.Effect.StartTime != 100 || loc.Effect.EndTime != 1100 {
		t.Fatalf("pasted effect = %+v", loc.Effect)
	}
	if scale, _ := loc.Effect.Data.Float("scale"); scale != 2 {
		t.Fatalf("pasted data = %v", loc.Effect.Data)
	}

	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo effect paste did not restore the project")
	}
}

func TestPasteSingletonMergesIntoExisting(t *testing.T) {
	ctx := context.Background()
	store, env, project := newSession(t)
	m := newManager(t)

	cursor := effects.OfType(project.Timeline.Effects, timeline.EffectCursor)[0]
	store.SelectEffectLayer(&timeline.EffectLayer{Type: timeline.EffectCursor})
	mustSucceed(t, m.Execute(ctx, command.NewCopy(env)))

	size := 9.0
	mustSucceed(t, m.Execute(ctx, command.NewUpdateEffect(env, cursor.ID, effects.Patch{Data: timeline.Payload{"size": size}})))
	before := snapshot(t, project)

	res := mustSucceed(t, m.Execute(ctx, command.NewPaste(env)))
	if res.Data.(string) != cursor.ID {
		t.Fatalf("paste should merge into %s, got %v", cursor.ID, res.Data)
	}
	if n := len(effects.OfType(project.Timeline.Effects, timeline.EffectCursor)); n != 1 {
		t.Fatalf("cursor effects = %d, want 1", n)
	}
	if got, _ := cursor.Data.Float("size"); got == size {
		t.Fatal("paste should overwrite the edited size with the copied one")
	}

	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo merge did not restore the effect")
	}
}

func TestPasteRequiresClipboard(t *testing.T) {
	_, env, _ := newSession(t)
	res := command.NewPaste(env).Execute(context.Background())
	if !errors.Is(res.Err, command.ErrPrecondition) {
		t.Fatalf("paste with empty clipboard: %v", res.Err)
	}
	res = command.NewCopy(env).Execute(context.Background())
	if !errors.Is(res.Err, command.ErrPrecondition) {
		t.Fatalf("copy with nothing selected: %v", res.Err)
	}
}

func TestPasteClipLeavesNeighbourEffectsInPlace(t *testing.T) {
	ctx := context.Background()
	store, env, project := newSession(t)
	m := newManager(t)

	store.SelectClip("clip-a", false)
	mustSucceed(t, m.Execute(ctx, command.NewCopy(env)))
	store.SetPlayhead(500)
	mustSucceed(t, m.Execute(ctx, command.NewPaste(env)))

	assertScreenWindow := func(stage string) {
		t.Helper()
		loc, ok := effects.Find(project, "screen-1")
		if !ok {
			t.Fatalf("%s: screen-1 missing", stage)
		}
		if loc.Effect.StartTime != 1000 || loc.Effect.EndTime != 2000 {
			t.Fatalf("%s: screen-1 = %v-%v, want 1000-2000", stage, loc.Effect.StartTime, loc.Effect.EndTime)
		}
	}
	assertScreenWindow("paste")

	mustSucceed(t, m.Undo(ctx))
	assertScreenWindow("undo")
	mustSucceed(t, m.Redo(ctx))
	assertScreenWindow("redo")
}
