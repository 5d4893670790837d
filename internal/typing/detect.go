package typing

import (
	"sort"
	"strings"

	"reelcut/internal/timeline"
)

// Options tunes period detection.
type Options struct {
	// MinKeys is the fewest keystrokes a run needs to count as typing.
	MinKeys int
	// MaxGapMs is the longest pause allowed between keystrokes of one run.
	MaxGapMs float64
	// SpeedMultiplier scales the clip's playback rate inside typing periods.
	SpeedMultiplier float64
}

// DefaultOptions mirrors the editor defaults in the sample config.
func DefaultOptions() Options {
	return Options{MinKeys: 4, MaxGapMs: 800, SpeedMultiplier: 3}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.MinKeys < 2 {
		o.MinKeys = def.MinKeys
	}
	if o.MaxGapMs <= 0 {
		o.MaxGapMs = def.MaxGapMs
	}
	if o.SpeedMultiplier <= 1 {
		o.SpeedMultiplier = def.SpeedMultiplier
	}
	return o
}

// Period is a detected run of typing in source space.
type Period struct {
	SourceStart     float64
	SourceEnd       float64
	Keys            int
	SpeedMultiplier float64
}

// DetectPeriods groups keystrokes separated by at most MaxGapMs into runs
// and returns the runs holding at least MinKeys keys. Shortcut chords
// (keys pressed with cmd, ctrl, or alt) are not typing and are ignored.
func DetectPeriods(events []timeline.KeyboardEvent, opts Options) []Period {
	opts = opts.normalized()
	stamps := make([]float64, 0, len(events))
	for _, ev := range events {
		if isChord(ev) {
			continue
		}
		stamps = append(stamps, ev.Timestamp)
	}
	sort.Float64s(stamps)

	var out []Period
	flush := func(run []float64) {
		if len(run) < opts.MinKeys {
			return
		}
		start, end := run[0], run[len(run)-1]
		if end <= start {
			return
		}
		out = append(out, Period{SourceStart: start, SourceEnd: end, Keys: len(run), SpeedMultiplier: opts.SpeedMultiplier})
	}
	var run []float64
	for _, ts := range stamps {
		if len(run) > 0 && ts-run[len(run)-1] > opts.MaxGapMs {
			flush(run)
			run = run[:0]
		}
		run = append(run, ts)
	}
	flush(run)
	return out
}

func isChord(ev timeline.KeyboardEvent) bool {
	for _, mod := range ev.Modifiers {
		switch strings.ToLower(mod) {
		case "cmd", "meta", "command", "ctrl", "control", "alt", "option":
			return true
		}
	}
	return false
}
