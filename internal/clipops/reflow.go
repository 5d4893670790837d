package clipops

import (
	"math"
	"sort"

	"reelcut/internal/effects"
	"reelcut/internal/timeline"
	"reelcut/internal/timespace"
)

// ReflowOptions tunes Reflow.
type ReflowOptions struct {
	// PreserveOrder keeps the current array order instead of stable-sorting
	// clips by start time first.
	PreserveOrder bool
	// Inserted names clips just placed on the track. Their StartTime is not
	// a window they occupied, so effects under it never follow them.
	Inserted []string
}

type window struct {
	start float64
	end   float64
}

// Reflow makes track contiguous again. Clips whose stored duration drifts
// from the duration their source range implies by more than
// timeline.Tolerance are repaired, the first clip is pinned to zero, and
// every clip from startFrom on is chained to its predecessor's end. Timeline
// effects fully inside a moved clip's old window follow the clip. Reflow is
// idempotent and returns the shifts it applied.
func Reflow(project *timeline.Project, track *timeline.Track, startFrom int, opts ReflowOptions) []effects.WindowShift {
	if track == nil || len(track.Clips) == 0 {
		return nil
	}
	inserted := make(map[string]bool, len(opts.Inserted))
	for _, id := range opts.Inserted {
		inserted[id] = true
	}
	before := make(map[string]window, len(track.Clips))
	for _, clip := range track.Clips {
		if inserted[clip.ID] {
			continue
		}
		before[clip.ID] = window{start: clip.StartTime, end: clip.End()}
	}

	repaired := make(map[string]bool)
	for _, clip := range track.Clips {
		if repairDuration(clip) {
			repaired[clip.ID] = true
		}
	}

	if !opts.PreserveOrder {
		sorted := sort.SliceIsSorted(track.Clips, func(i, j int) bool {
			return track.Clips[i].StartTime < track.Clips[j].StartTime
		})
		if !sorted {
			sort.SliceStable(track.Clips, func(i, j int) bool {
				return track.Clips[i].StartTime < track.Clips[j].StartTime
			})
			startFrom = 0
		}
	}

	// A repaired clip moves every clip after it.
	for i, clip := range track.Clips {
		if repaired[clip.ID] && i+1 < startFrom {
			startFrom = i + 1
			break
		}
	}
	if startFrom < 1 {
		startFrom = 1
	}
	track.Clips[0].StartTime = 0
	for i := startFrom; i < len(track.Clips); i++ {
		track.Clips[i].StartTime = track.Clips[i-1].End()
	}

	var shifts []effects.WindowShift
	for _, clip := range track.Clips {
		old, ok := before[clip.ID]
		if !ok {
			continue
		}
		delta := clip.StartTime - old.start
		if math.Abs(delta) < 1e-9 {
			continue
		}
		shifts = append(shifts, effects.WindowShift{
			ClipID:   clip.ID,
			OldStart: old.start,
			OldEnd:   old.end,
			Delta:    delta,
		})
	}
	if project != nil && len(shifts) > 0 {
		effects.ShiftForReflow(project.Timeline.Effects, shifts)
	}
	return shifts
}

// RecomputeDuration sets the timeline duration to the furthest clip end
// across all tracks and returns it.
func RecomputeDuration(project *timeline.Project) float64 {
	if project == nil {
		return 0
	}
	project.Timeline.Duration = maxEnd(project)
	return project.Timeline.Duration
}

func maxEnd(project *timeline.Project) float64 {
	var end float64
	for _, track := range project.Timeline.Tracks {
		if track == nil {
			continue
		}
		for _, clip := range track.Clips {
			end = math.Max(end, clip.End())
		}
	}
	return end
}

func repairDuration(clip *timeline.Clip) bool {
	if timespace.DurationDrift(clip) <= timeline.Tolerance {
		return false
	}
	clip.Duration = settledDuration(clip)
	return true
}

// settledDuration is the duration a clip should carry for its source range
// and speeds.
func settledDuration(clip *timeline.Clip) float64 {
	if clip.HasRemap() {
		return math.Max(1, timespace.RemappedDuration(clip))
	}
	return timespace.EffectiveDuration(clip, 0)
}
