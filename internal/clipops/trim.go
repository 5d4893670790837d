package clipops

import (
	"fmt"

	"reelcut/internal/timeline"
	"reelcut/internal/timespace"
)

// TrimClipStart moves the clip's start boundary to the timeline position
// newStart, which must lie strictly inside the clip. The clip keeps its
// timeline start; the following clips close the gap on reflow.
func TrimClipStart(project *timeline.Project, id string, newStart float64) error {
	clip, track, idx := FindClip(project, id)
	if clip == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	if newStart <= clip.StartTime || newStart >= clip.End() {
		return fmt.Errorf("%w: %.3f not inside (%.3f, %.3f) of clip %s", ErrInvalidTrimPoint, newStart, clip.StartTime, clip.End(), id)
	}
	rel := newStart - clip.StartTime
	bounded := withSourceBounds(clip)
	sourceOut := bounded.SourceOut
	sourceIn := timespace.ClipRelativeToSource(rel, bounded)

	clip.SourceIn = sourceIn
	clip.SourceOut = sourceOut
	clip.TimeRemapPeriods = clipPeriods(clip.TimeRemapPeriods, sourceIn, sourceOut)
	clip.Duration -= rel

	Reflow(project, track, idx, ReflowOptions{PreserveOrder: true})
	RecomputeDuration(project)
	return nil
}

// TrimClipEnd moves the clip's end boundary to the timeline position newEnd,
// which must lie strictly inside the clip. Later clips move up to close the
// gap.
func TrimClipEnd(project *timeline.Project, id string, newEnd float64) error {
	clip, track, idx := FindClip(project, id)
	if clip == nil {
		return fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	if newEnd <= clip.StartTime || newEnd >= clip.End() {
		return fmt.Errorf("%w: %.3f not inside (%.3f, %.3f) of clip %s", ErrInvalidTrimPoint, newEnd, clip.StartTime, clip.End(), id)
	}
	rel := newEnd - clip.StartTime
	bounded := withSourceBounds(clip)
	sourceIn := bounded.SourceIn
	sourceOut := timespace.ClipRelativeToSource(rel, bounded)

	clip.SourceIn = sourceIn
	clip.SourceOut = sourceOut
	clip.TimeRemapPeriods = clipPeriods(clip.TimeRemapPeriods, sourceIn, sourceOut)
	clip.Duration = rel

	Reflow(project, track, idx, ReflowOptions{PreserveOrder: true})
	RecomputeDuration(project)
	return nil
}
