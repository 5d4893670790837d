package command_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"reelcut/internal/command"
	"reelcut/internal/typing"
)

func TestApplyTypingSpeed(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	res := mustSucceed(t, m.Execute(ctx, command.NewApplyTypingSpeed(env, "clip-a", typing.DefaultOptions())))
	plan := res.Data.(typing.Plan)
	clip := track(project).Clips[0]
	if !clip.TypingSpeedApplied || len(clip.TimeRemapPeriods) != 1 {
		t.Fatalf("clip after typing speed = %+v", clip)
	}
	period := clip.TimeRemapPeriods[0]
	if period.SourceStartTime != 2000 || period.SourceEndTime != 3000 || period.SpeedMultiplier != 3 {
		t.Fatalf("remap period = %+v", period)
	}
	want := 2000 + 1000.0/3 + 1000
	if math.Abs(clip.Duration-want) > 1e-6 || math.Abs(plan.Duration-want) > 1e-6 {
		t.Fatalf("duration = %v, plan %v, want %v", clip.Duration, plan.Duration, want)
	}
	if math.Abs(track(project).Clips[1].StartTime-want) > 1e-6 {
		t.Fatal("follower not reflowed")
	}
	assertLayout(t, project)

	again := m.Execute(ctx, command.NewApplyTypingSpeed(env, "clip-a", typing.DefaultOptions()))
	if !errors.Is(again.Err, command.ErrPrecondition) {
		t.Fatalf("second application: %v", again.Err)
	}

	mustSucceed(t, m.Undo(ctx))
	if got := snapshot(t, project); got != before {
		t.Fatalf("undo typing speed\nwant %s\ngot  %s", before, got)
	}
}

func TestApplyTypingSpeedWithoutTyping(t *testing.T) {
	_, env, project := newSession(t)
	before := snapshot(t, project)
	res := command.NewApplyTypingSpeed(env, "clip-b", typing.DefaultOptions()).Execute(context.Background())
	if !errors.Is(res.Err, command.ErrPrecondition) {
		t.Fatalf("clip without typing: %v", res.Err)
	}
	if snapshot(t, project) != before {
		t.Fatal("rejected typing speed mutated the project")
	}
}

func TestApplyTypingSpeedToAllClips(t *testing.T) {
	ctx := context.Background()
	_, env, project := newSession(t)
	m := newManager(t)
	before := snapshot(t, project)

	cmd := command.NewApplyTypingSpeedToAllClips(env, typing.DefaultOptions())
	if cmd.Metadata().Description != "Speed up typing in 2 clips" {
		t.Fatalf("description = %q", cmd.Metadata().Description)
	}
	mustSucceed(t, m.Execute(ctx, cmd))
	clips := track(project).Clips
	if !clips[0].TypingSpeedApplied || clips[1].TypingSpeedApplied || !clips[2].TypingSpeedApplied {
		t.Fatal("typing speed should apply to clip-a and clip-c only")
	}
	assertLayout(t, project)

	mustSucceed(t, m.Undo(ctx))
	if got := snapshot(t, project); got != before {
		t.Fatalf("undo typing speed for all clips\nwant %s\ngot  %s", before, got)
	}
}
