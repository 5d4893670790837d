package typing

import (
	"errors"
	"math"
	"sort"

	"reelcut/internal/timeline"
	"reelcut/internal/timespace"
)

// DefaultFrameRate is used when a project carries no frame rate.
const DefaultFrameRate = 60

// ErrNoTyping is returned when no typing period overlaps the clip.
var ErrNoTyping = errors.New("no typing periods inside clip")

// Segment is one slice of a clip's source range played at a single speed.
type Segment struct {
	SourceStart float64
	SourceEnd   float64
	Speed       float64
	Typing      bool
}

// OutputDuration is the segment's length in timeline time.
func (s Segment) OutputDuration() float64 {
	return (s.SourceEnd - s.SourceStart) / s.Speed
}

// Plan is the retiming computed for one clip.
type Plan struct {
	Segments []Segment
	Periods  []timeline.TimeRemapPeriod
	Duration float64
}

// PlanClip partitions the clip's source range into base-speed and typing
// segments, folds every segment shorter than one frame at fps into a
// neighbour, and returns the resulting remap periods and duration. Typing
// segments play at the clip rate times the period's multiplier.
func PlanClip(clip *timeline.Clip, periods []Period, fps int) (Plan, error) {
	if clip == nil {
		return Plan{}, ErrNoTyping
	}
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	sourceIn, sourceOut := clip.SourceIn, clip.SourceOut
	if sourceIn == 0 && sourceOut == 0 {
		sourceOut = timespace.SourceDuration(clip)
	}
	rate := clip.Rate()

	spans := clipSpans(periods, sourceIn, sourceOut)
	if len(spans) == 0 {
		return Plan{}, ErrNoTyping
	}

	var segments []Segment
	cursor := sourceIn
	for _, span := range spans {
		if span.SourceStart > cursor {
			segments = append(segments, Segment{SourceStart: cursor, SourceEnd: span.SourceStart, Speed: rate})
		}
		segments = append(segments, Segment{SourceStart: span.SourceStart, SourceEnd: span.SourceEnd, Speed: rate * span.SpeedMultiplier, Typing: true})
		cursor = span.SourceEnd
	}
	if sourceOut > cursor {
		segments = append(segments, Segment{SourceStart: cursor, SourceEnd: sourceOut, Speed: rate})
	}

	segments = mergeShort(segments, 1000/float64(fps))
	segments = coalesce(segments)

	plan := Plan{Segments: segments}
	for _, seg := range segments {
		plan.Duration += seg.OutputDuration()
		if seg.Speed != rate {
			plan.Periods = append(plan.Periods, timeline.TimeRemapPeriod{
				SourceStartTime: seg.SourceStart,
				SourceEndTime:   seg.SourceEnd,
				SpeedMultiplier: seg.Speed,
			})
		}
	}
	if len(plan.Periods) == 0 {
		return Plan{}, ErrNoTyping
	}
	return plan, nil
}

// clipSpans clips periods to [lo, hi], sorts them, and merges overlaps.
func clipSpans(periods []Period, lo, hi float64) []Period {
	var spans []Period
	for _, p := range periods {
		start := math.Max(p.SourceStart, lo)
		end := math.Min(p.SourceEnd, hi)
		if end <= start || p.SpeedMultiplier <= 0 {
			continue
		}
		p.SourceStart, p.SourceEnd = start, end
		spans = append(spans, p)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].SourceStart < spans[j].SourceStart })

	var out []Period
	for _, span := range spans {
		if n := len(out); n > 0 && span.SourceStart <= out[n-1].SourceEnd {
			last := &out[n-1]
			last.SourceEnd = math.Max(last.SourceEnd, span.SourceEnd)
			last.Keys += span.Keys
			continue
		}
		out = append(out, span)
	}
	return out
}

// mergeShort folds every segment whose output is shorter than minMs into its
// previous neighbour, or into the next one when it is first. The absorbing
// neighbour keeps its speed.
func mergeShort(segments []Segment, minMs float64) []Segment {
	for len(segments) > 1 {
		idx := -1
		for i, seg := range segments {
			if seg.OutputDuration() < minMs {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}
		if idx > 0 {
			segments[idx-1].SourceEnd = segments[idx].SourceEnd
		} else {
			segments[1].SourceStart = segments[0].SourceStart
		}
		segments = append(segments[:idx], segments[idx+1:]...)
	}
	return segments
}

// coalesce joins adjacent segments that ended up at the same speed.
func coalesce(segments []Segment) []Segment {
	var out []Segment
	for _, seg := range segments {
		if n := len(out); n > 0 && out[n-1].Speed == seg.Speed {
			out[n-1].SourceEnd = seg.SourceEnd
			out[n-1].Typing = out[n-1].Typing || seg.Typing
			continue
		}
		out = append(out, seg)
	}
	return out
}
