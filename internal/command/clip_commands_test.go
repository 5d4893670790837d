package command_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"reelcut/internal/clipops"
	"reelcut/internal/command"
	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

func TestSplitClipUndoRestoresOriginal(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	res := mustSucceed(t, m.Execute(ctx, command.NewSplitClip(env, "clip-b", 5000)))
	split, ok := res.Data.(command.SplitResult)
	if !ok {
		t.Fatalf("split result = %T", res.Data)
	}
	wantFirst := fmt.Sprintf("clip-b-split1-%d", fixedNow.UnixMilli())
	wantSecond := fmt.Sprintf("clip-b-split2-%d", fixedNow.UnixMilli())
	if split.FirstID != wantFirst || split.SecondID != wantSecond {
		t.Fatalf("split ids = %+v", split)
	}
	if got := clipIDs(project); len(got) != 4 {
		t.Fatalf("clips after split = %v", got)
	}
	first := track(project).Clips[1]
	second := track(project).Clips[2]
	if first.Duration != 1000 || first.SourceOut != 6000 || second.StartTime != 5000 || second.SourceIn != 6000 {
		t.Fatalf("unexpected halves: %+v %+v", first, second)
	}
	assertLayout(t, project)
	if got := env.SelectedClips(); len(got) != 1 || got[0] != wantSecond {
		t.Fatalf("selection after split = %v", got)
	}

	mustSucceed(t, m.Undo(ctx))
	if got := snapshot(t, project); got != before {
		t.Fatalf("undo did not restore the project\nwant %s\ngot  %s", before, got)
	}
	orig := track(project).Clips[1]
	if orig.ID != "clip-b" || orig.StartTime != 4000 || orig.Duration != 3000 || orig.SourceIn != 4000 || orig.SourceOut != 10000 {
		t.Fatalf("restored clip = %+v", orig)
	}

	res = mustSucceed(t, m.Redo(ctx))
	if redo := res.Data.(command.SplitResult); redo != split {
		t.Fatalf("redo ids %+v differ from first run %+v", redo, split)
	}
	assertLayout(t, project)
}

func TestSplitClipRejectsBoundary(t *testing.T) {
	_, env, project := newSession(t)
	before := snapshot(t, project)
	for _, at := range []float64{4000, 7000, 12000} {
		res := command.NewSplitClip(env, "clip-b", at).Execute(context.Background())
		if !errors.Is(res.Err, command.ErrPrecondition) {
			t.Fatalf("split at %v: %v", at, res.Err)
		}
	}
	res := command.NewSplitClip(env, "missing", 100).Execute(context.Background())
	if !errors.Is(res.Err, command.ErrNotFound) {
		t.Fatalf("split of missing clip: %v", res.Err)
	}
	if snapshot(t, project) != before {
		t.Fatal("rejected splits mutated the project")
	}
}

func TestTrimEndReflowsAndShiftsEffects(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	mustSucceed(t, m.Execute(ctx, command.NewTrimEnd(env, "clip-a", 2000)))
	clips := track(project).Clips
	if clips[0].Duration != 2000 || clips[0].SourceOut != 2000 {
		t.Fatalf("trimmed clip = %+v", clips[0])
	}
	if clips[1].StartTime != 2000 || clips[2].StartTime != 5000 {
		t.Fatalf("followers not reflowed: %v, %v", clips[1].StartTime, clips[2].StartTime)
	}
	if project.Timeline.Duration != 10000 {
		t.Fatalf("duration = %v", project.Timeline.Duration)
	}
	zoom, _ := effects.Find(project, "zoom-1")
	if zoom.Effect.StartTime != 6000 || zoom.Effect.EndTime != 7000 {
		t.Fatalf("zoom block not shifted with its clip: %+v", zoom.Effect)
	}
	screen, _ := effects.Find(project, "screen-1")
	if screen.Effect.StartTime != 1000 {
		t.Fatalf("effect on the trimmed clip moved: %+v", screen.Effect)
	}

	mustSucceed(t, m.Undo(ctx))
	if got := snapshot(t, project); got != before {
		t.Fatalf("undo trim\nwant %s\ngot  %s", before, got)
	}
}

func TestTrimStartCommand(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	mustSucceed(t, m.Execute(ctx, command.NewTrimStart(env, "clip-c", 8000)))
	clip := track(project).Clips[2]
	if clip.StartTime != 7000 || clip.Duration != 4000 || clip.SourceIn != 11000 {
		t.Fatalf("trim start = %+v", clip)
	}
	assertLayout(t, project)

	if res := command.NewTrimStart(env, "clip-c", 7000).Execute(ctx); !errors.Is(res.Err, command.ErrPrecondition) {
		t.Fatalf("trim at the clip start: %v", res.Err)
	}

	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo trim start did not restore the project")
	}
}

func TestRemoveClipUndoRestoresPosition(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	mustSucceed(t, m.Execute(ctx, command.NewRemoveClip(env, "clip-b")))
	if got := strings.Join(clipIDs(project), ","); got != "clip-a,clip-c" {
		t.Fatalf("clips = %s", got)
	}
	if track(project).Clips[1].StartTime != 4000 {
		t.Fatal("clip-c should close the gap")
	}
	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo remove did not restore the project")
	}
	mustSucceed(t, m.Redo(ctx))
	if len(track(project).Clips) != 2 {
		t.Fatal("redo should remove the clip again")
	}
}

func TestDuplicateClipRedoKeepsID(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)

	res := mustSucceed(t, m.Execute(ctx, command.NewDuplicateClip(env, "clip-a")))
	dupID := res.Data.(string)
	if got := clipIDs(project); got[1] != dupID {
		t.Fatalf("duplicate not inserted after source: %v", got)
	}
	if project.Timeline.Duration != 16000 {
		t.Fatalf("duration = %v", project.Timeline.Duration)
	}
	mustSucceed(t, m.Undo(ctx))
	if len(track(project).Clips) != 3 {
		t.Fatal("undo should drop the duplicate")
	}
	res = mustSucceed(t, m.Redo(ctx))
	if res.Data.(string) != dupID || clipIDs(project)[1] != dupID {
		t.Fatalf("redo produced a different id: %v", res.Data)
	}
	assertLayout(t, project)
}

func TestAddClipAppendsAndUndoes(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	clip := &timeline.Clip{RecordingID: "rec-1", StartTime: 12000, SourceIn: 15000, SourceOut: 20000, PlaybackRate: 1}
	res := mustSucceed(t, m.Execute(ctx, command.NewAddClip(env, "video-1", clip)))
	id := res.Data.(string)
	added, _, ok := env.FindClip(id)
	if !ok || added.Duration != 5000 || added.StartTime != 12000 {
		t.Fatalf("added clip = %+v", added)
	}
	if project.Timeline.Duration != 17000 {
		t.Fatalf("duration = %v", project.Timeline.Duration)
	}

	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo add did not restore the project")
	}

	bad := command.NewAddClip(env, "video-1", &timeline.Clip{RecordingID: "rec-9", SourceOut: 100})
	if res := bad.Execute(ctx); !errors.Is(res.Err, command.ErrNotFound) {
		t.Fatalf("unknown recording: %v", res.Err)
	}
}

func TestUpdateClipRateUndo(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	rate := 4.0
	mustSucceed(t, m.Execute(ctx, command.NewUpdateClip(env, "clip-b", clipops.Update{PlaybackRate: &rate})))
	clip := track(project).Clips[1]
	if clip.Duration != 1500 {
		t.Fatalf("duration after rate change = %v", clip.Duration)
	}
	if track(project).Clips[2].StartTime != 5500 {
		t.Fatal("follower not reflowed")
	}
	mustSucceed(t, m.Undo(ctx))
	if snapshot(t, project) != before {
		t.Fatal("undo update did not restore the project")
	}

	if res := command.NewUpdateClip(env, "clip-b", clipops.Update{}).Execute(ctx); !errors.Is(res.Err, command.ErrPrecondition) {
		t.Fatalf("empty update: %v", res.Err)
	}
}

func TestCompositeFailureLeavesProjectUntouched(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	before := snapshot(t, project)

	rate := 2.0
	composite := command.NewComposite(command.Metadata{Name: "batch"},
		command.NewUpdateClip(env, "clip-a", clipops.Update{PlaybackRate: &rate}),
		command.NewSplitClip(env, "clip-a", 99999),
		command.NewRemoveClip(env, "clip-c"),
	)
	res := composite.Execute(ctx)
	if !errors.Is(res.Err, command.ErrPrecondition) {
		t.Fatalf("expected precondition failure, got %v", res.Err)
	}
	if snapshot(t, project) != before {
		t.Fatal("a composite that failed its precondition mutated the project")
	}
}

func TestCompositeExecutionFailureCompensates(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	before := snapshot(t, project)

	composite := command.NewComposite(command.Metadata{Name: "batch"},
		command.NewTrimEnd(env, "clip-c", 11000),
		command.NewRemoveClip(env, "clip-a"),
		command.New(&stubOp{name: "fail", execErr: errors.New("render failed")}),
	)
	res := composite.Execute(ctx)
	if res.Success || !strings.Contains(res.Error(), "step 2 (fail) failed") {
		t.Fatalf("unexpected result: %v", res.Err)
	}
	if got := snapshot(t, project); got != before {
		t.Fatalf("compensation did not restore the project\nwant %s\ngot  %s", before, got)
	}
}

func TestAddClipWithoutStartKeepsEarlierEffects(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)

	clip := &timeline.Clip{RecordingID: "rec-1", SourceIn: 15000, SourceOut: 17000, PlaybackRate: 1}
	mustSucceed(t, m.Execute(ctx, command.NewAddClip(env, "video-1", clip)))
	assertLayout(t, project)

	screen, _ := effects.Find(project, "screen-1")
	if screen.Effect.StartTime != 1000 || screen.Effect.EndTime != 2000 {
		t.Fatalf("screen-1 = %v-%v, want 1000-2000", screen.Effect.StartTime, screen.Effect.EndTime)
	}
	zoom, _ := effects.Find(project, "zoom-1")
	if zoom.Effect.StartTime != 10000 || zoom.Effect.EndTime != 11000 {
		t.Fatalf("zoom-1 = %v-%v, want it to follow clip-c to 10000-11000", zoom.Effect.StartTime, zoom.Effect.EndTime)
	}
}
