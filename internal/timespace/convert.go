package timespace

import (
	"math"

	"reelcut/internal/timeline"
)

// SourceToClipRelative maps a source timestamp into the clip's own playback
// time, clamped to [0, clip.Duration].
func SourceToClipRelative(sourceMs float64, clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	if sourceMs <= clip.SourceIn {
		return 0
	}
	if sourceMs >= clip.SourceOut {
		return math.Max(0, clip.Duration)
	}
	if !clip.HasRemap() {
		return clamp((sourceMs-clip.SourceIn)/clip.Rate(), 0, clip.Duration)
	}

	rate := clip.Rate()
	cursor := clip.SourceIn
	var elapsed float64
	for _, period := range clip.TimeRemapPeriods {
		start, end, ok := clipPeriod(period, clip)
		if !ok || end <= cursor {
			continue
		}
		if start > cursor {
			if sourceMs <= start {
				return clamp(elapsed+(sourceMs-cursor)/rate, 0, clip.Duration)
			}
			elapsed += (start - cursor) / rate
			cursor = start
		}
		speed := periodSpeed(period)
		if sourceMs <= end {
			return clamp(elapsed+(sourceMs-cursor)/speed, 0, clip.Duration)
		}
		elapsed += (end - cursor) / speed
		cursor = end
	}
	return clamp(elapsed+(sourceMs-cursor)/rate, 0, clip.Duration)
}

// ClipRelativeToSource is the inverse of SourceToClipRelative. The result is
// clamped to [clip.SourceIn, clip.SourceOut].
func ClipRelativeToSource(clipRelativeMs float64, clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	if clipRelativeMs <= 0 || clip.Duration <= 0 {
		return clip.SourceIn
	}
	if clipRelativeMs >= clip.Duration {
		return clip.SourceOut
	}
	if !clip.HasRemap() {
		// Proportional mapping holds for any playback rate, including
		// durations that were rounded when the clip was created.
		source := clip.SourceIn + (clipRelativeMs/clip.Duration)*(clip.SourceOut-clip.SourceIn)
		return clamp(source, clip.SourceIn, clip.SourceOut)
	}

	rate := clip.Rate()
	cursor := clip.SourceIn
	remaining := clipRelativeMs
	for _, period := range clip.TimeRemapPeriods {
		start, end, ok := clipPeriod(period, clip)
		if !ok || end <= cursor {
			continue
		}
		if start > cursor {
			gap := (start - cursor) / rate
			if remaining <= gap {
				return clamp(cursor+remaining*rate, clip.SourceIn, clip.SourceOut)
			}
			remaining -= gap
			cursor = start
		}
		speed := periodSpeed(period)
		span := (end - cursor) / speed
		if remaining <= span {
			return clamp(cursor+remaining*speed, clip.SourceIn, clip.SourceOut)
		}
		remaining -= span
		cursor = end
	}
	return clamp(cursor+remaining*rate, clip.SourceIn, clip.SourceOut)
}

// SourceToTimeline maps a source timestamp onto the timeline through clip.
func SourceToTimeline(sourceMs float64, clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	return clip.StartTime + SourceToClipRelative(sourceMs, clip)
}

// TimelineToSource maps a timeline timestamp back into source space through
// clip.
func TimelineToSource(timelineMs float64, clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	return ClipRelativeToSource(timelineMs-clip.StartTime, clip)
}

// SourceDuration returns sourceOut-sourceIn, falling back to
// duration*playbackRate when the source bounds are missing.
func SourceDuration(clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	if clip.SourceOut > clip.SourceIn {
		return clip.SourceOut - clip.SourceIn
	}
	if clip.SourceOut == 0 && clip.SourceIn == 0 {
		return clip.Duration * clip.Rate()
	}
	return 0
}

// EffectiveDuration returns max(1, round(sourceDuration/rate)). A positive
// rateOverride replaces the clip's own playback rate.
func EffectiveDuration(clip *timeline.Clip, rateOverride float64) float64 {
	rate := clip.Rate()
	if rateOverride > 0 {
		rate = rateOverride
	}
	return math.Max(1, math.Round(SourceDuration(clip)/rate))
}

// RemappedDuration sums each segment's source span divided by its speed over
// the ordered partition of [sourceIn, sourceOut] induced by the remap
// periods.
func RemappedDuration(clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	rate := clip.Rate()
	cursor := clip.SourceIn
	var total float64
	for _, period := range clip.TimeRemapPeriods {
		start, end, ok := clipPeriod(period, clip)
		if !ok || end <= cursor {
			continue
		}
		if start > cursor {
			total += (start - cursor) / rate
			cursor = start
		}
		total += (end - cursor) / periodSpeed(period)
		cursor = end
	}
	if clip.SourceOut > cursor {
		total += (clip.SourceOut - cursor) / rate
	}
	return total
}

// ExpectedDuration is the duration the clip's source range and speeds imply.
func ExpectedDuration(clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	if clip.HasRemap() {
		return RemappedDuration(clip)
	}
	return SourceDuration(clip) / clip.Rate()
}

// DurationDrift reports how far the stored duration is from ExpectedDuration.
func DurationDrift(clip *timeline.Clip) float64 {
	if clip == nil {
		return 0
	}
	return math.Abs(clip.Duration - ExpectedDuration(clip))
}

// FindClipAt returns the clip whose [startTime, startTime+duration) window
// contains t.
func FindClipAt(clips []*timeline.Clip, t float64) (*timeline.Clip, int) {
	for i, clip := range clips {
		if clip == nil {
			continue
		}
		if t >= clip.StartTime && t < clip.End() {
			return clip, i
		}
	}
	return nil, -1
}

func clipPeriod(period timeline.TimeRemapPeriod, clip *timeline.Clip) (float64, float64, bool) {
	start := math.Max(period.SourceStartTime, clip.SourceIn)
	end := math.Min(period.SourceEndTime, clip.SourceOut)
	return start, end, end > start
}

func periodSpeed(period timeline.TimeRemapPeriod) float64 {
	if period.SpeedMultiplier <= 0 {
		return 1
	}
	return period.SpeedMultiplier
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
