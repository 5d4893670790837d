package effects_test

import (
	"testing"

	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

func TestShiftForReflowMovesBoundEffectsOnly(t *testing.T) {
	list := []*timeline.Effect{
		{ID: "inside", Type: timeline.EffectZoom, StartTime: 2100, EndTime: 2900},
		{ID: "straddle", Type: timeline.EffectScreen, StartTime: 1500, EndTime: 2500},
		{ID: "background", Type: timeline.EffectBackground, StartTime: 2000, EndTime: 3000},
		{ID: "unbounded-cursor", Type: timeline.EffectCursor, StartTime: 0, EndTime: timeline.Unbounded},
	}
	shifts := []effects.WindowShift{{ClipID: "b", OldStart: 2000, OldEnd: 3000, Delta: -1000}}

	moved := effects.ShiftForReflow(list, shifts)
	if moved != 1 {
		t.Fatalf("expected one effect moved, got %d", moved)
	}
	if list[0].StartTime != 1100 || list[0].EndTime != 1900 {
		t.Fatalf("expected inside effect shifted, got %v-%v", list[0].StartTime, list[0].EndTime)
	}
	if list[1].StartTime != 1500 {
		t.Fatal("straddling effect must not move")
	}
	if list[2].StartTime != 2000 {
		t.Fatal("background must never move")
	}
}

func TestShiftForReflowAppliesAtMostOnce(t *testing.T) {
	list := []*timeline.Effect{{ID: "z", Type: timeline.EffectZoom, StartTime: 1000, EndTime: 1000.5}}
	shifts := []effects.WindowShift{
		{ClipID: "a", OldStart: 0, OldEnd: 2000, Delta: 500},
		{ClipID: "b", OldStart: 1000, OldEnd: 3000, Delta: 500},
	}
	effects.ShiftForReflow(list, shifts)
	if list[0].StartTime != 1500 {
		t.Fatalf("expected single shift, got %v", list[0].StartTime)
	}
}
