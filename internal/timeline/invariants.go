package timeline

import (
	"errors"
	"fmt"
	"math"
)

// Tolerance is the slack, in milliseconds, allowed when comparing computed
// and stored times.
const Tolerance = 1.0

// ErrInvariant marks a violated layout or data invariant.
var ErrInvariant = errors.New("timeline invariant violated")

// CheckTrack verifies contiguity, non-overlap, and per-clip source bounds for
// a single track.
func CheckTrack(track *Track) error {
	if track == nil {
		return nil
	}
	var prevEnd float64
	for i, clip := range track.Clips {
		if clip == nil {
			return fmt.Errorf("%w: track %s has nil clip at %d", ErrInvariant, track.ID, i)
		}
		if err := CheckClip(clip); err != nil {
			return err
		}
		if i == 0 {
			if math.Abs(clip.StartTime) > Tolerance {
				return fmt.Errorf("%w: track %s first clip %s starts at %.3f", ErrInvariant, track.ID, clip.ID, clip.StartTime)
			}
		} else if math.Abs(clip.StartTime-prevEnd) > Tolerance {
			return fmt.Errorf("%w: track %s clip %s starts at %.3f, previous ends at %.3f", ErrInvariant, track.ID, clip.ID, clip.StartTime, prevEnd)
		}
		prevEnd = clip.End()
	}
	return nil
}

// CheckClip verifies source bounds and remap-period ordering for one clip.
func CheckClip(clip *Clip) error {
	if clip.SourceIn > clip.SourceOut {
		return fmt.Errorf("%w: clip %s sourceIn %.3f > sourceOut %.3f", ErrInvariant, clip.ID, clip.SourceIn, clip.SourceOut)
	}
	prevEnd := clip.SourceIn
	for i, period := range clip.TimeRemapPeriods {
		if period.SourceStartTime < clip.SourceIn-Tolerance || period.SourceEndTime > clip.SourceOut+Tolerance {
			return fmt.Errorf("%w: clip %s remap period %d outside source range", ErrInvariant, clip.ID, i)
		}
		if period.SourceStartTime >= period.SourceEndTime {
			return fmt.Errorf("%w: clip %s remap period %d is empty", ErrInvariant, clip.ID, i)
		}
		if period.SourceStartTime < prevEnd-Tolerance {
			return fmt.Errorf("%w: clip %s remap period %d overlaps or is unsorted", ErrInvariant, clip.ID, i)
		}
		if period.SpeedMultiplier <= 0 {
			return fmt.Errorf("%w: clip %s remap period %d has non-positive speed", ErrInvariant, clip.ID, i)
		}
		prevEnd = period.SourceEndTime
	}
	return nil
}

// CheckEffect verifies an effect has a positive span.
func CheckEffect(effect *Effect) error {
	if effect == nil {
		return nil
	}
	if effect.StartTime >= effect.EndTime {
		return fmt.Errorf("%w: effect %s start %.3f not before end %.3f", ErrInvariant, effect.ID, effect.StartTime, effect.EndTime)
	}
	return nil
}

// Check runs every structural check over the project and returns the first
// violation found.
func (p *Project) Check() error {
	if p == nil {
		return nil
	}
	for _, track := range p.Timeline.Tracks {
		if err := CheckTrack(track); err != nil {
			return err
		}
	}
	for _, eff := range p.Timeline.Effects {
		if err := CheckEffect(eff); err != nil {
			return err
		}
	}
	for _, rec := range p.Recordings {
		if rec == nil {
			continue
		}
		for _, eff := range rec.Effects {
			if err := CheckEffect(eff); err != nil {
				return err
			}
		}
	}
	return nil
}
