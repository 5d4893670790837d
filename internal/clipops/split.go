package clipops

import (
	"fmt"
	"math"
	"time"

	"reelcut/internal/timeline"
	"reelcut/internal/timespace"
)

// SplitClipAtTime cuts clip at the clip-relative time rel and returns the two
// halves. The halves share the original recording and playback rate, carry
// the remap periods falling on their side of the cut, and receive
// deterministic ids derived from the original id and now. clip itself is not
// modified.
func SplitClipAtTime(clip *timeline.Clip, rel float64, now time.Time) (*timeline.Clip, *timeline.Clip, error) {
	if clip == nil {
		return nil, nil, ErrClipNotFound
	}
	if rel <= 0 || rel >= clip.Duration {
		return nil, nil, fmt.Errorf("%w: %.3f not inside (0, %.3f) of clip %s", ErrInvalidSplitPoint, rel, clip.Duration, clip.ID)
	}
	bounded := withSourceBounds(clip)
	sourceIn, sourceOut := bounded.SourceIn, bounded.SourceOut
	cut := timespace.ClipRelativeToSource(rel, bounded)
	if cut <= sourceIn || cut >= sourceOut {
		return nil, nil, fmt.Errorf("%w: source point %.3f not inside clip %s", ErrInvalidSplitPoint, cut, clip.ID)
	}

	stamp := now.UnixMilli()
	first := clip.Clone()
	first.ID = fmt.Sprintf("%s-split1-%d", clip.ID, stamp)
	first.SourceIn = sourceIn
	first.SourceOut = cut
	first.Duration = rel
	first.TimeRemapPeriods = clipPeriods(clip.TimeRemapPeriods, sourceIn, cut)

	second := clip.Clone()
	second.ID = fmt.Sprintf("%s-split2-%d", clip.ID, stamp)
	second.SourceIn = cut
	second.SourceOut = sourceOut
	second.StartTime = clip.StartTime + rel
	second.Duration = clip.Duration - rel
	second.TimeRemapPeriods = clipPeriods(clip.TimeRemapPeriods, cut, sourceOut)

	return first, second, nil
}

// SplitClip replaces the clip with id by its two halves at the timeline
// position splitTime and returns them.
func SplitClip(project *timeline.Project, id string, splitTime float64, now time.Time) (*timeline.Clip, *timeline.Clip, error) {
	clip, track, idx := FindClip(project, id)
	if clip == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	first, second, err := SplitClipAtTime(clip, splitTime-clip.StartTime, now)
	if err != nil {
		return nil, nil, err
	}
	clips := make([]*timeline.Clip, 0, len(track.Clips)+1)
	clips = append(clips, track.Clips[:idx]...)
	clips = append(clips, first, second)
	clips = append(clips, track.Clips[idx+1:]...)
	track.Clips = clips

	Reflow(project, track, idx, ReflowOptions{PreserveOrder: true})
	RecomputeDuration(project)
	return first, second, nil
}

// withSourceBounds returns clip, or a copy with materialised bounds when the
// clip was created without source bounds, so it can still be cut.
func withSourceBounds(clip *timeline.Clip) *timeline.Clip {
	if clip.SourceIn != 0 || clip.SourceOut != 0 {
		return clip
	}
	cp := clip.Clone()
	cp.SourceOut = timespace.SourceDuration(clip)
	return cp
}

// clipPeriods keeps the parts of periods that fall inside [lo, hi].
func clipPeriods(periods []timeline.TimeRemapPeriod, lo, hi float64) []timeline.TimeRemapPeriod {
	var out []timeline.TimeRemapPeriod
	for _, period := range periods {
		start := math.Max(period.SourceStartTime, lo)
		end := math.Min(period.SourceEndTime, hi)
		if end <= start {
			continue
		}
		out = append(out, timeline.TimeRemapPeriod{
			SourceStartTime: start,
			SourceEndTime:   end,
			SpeedMultiplier: period.SpeedMultiplier,
		})
	}
	return out
}
