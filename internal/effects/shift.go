package effects

import "reelcut/internal/timeline"

// WindowShift records a clip whose timeline window moved during a reflow.
type WindowShift struct {
	ClipID   string
	OldStart float64
	OldEnd   float64
	Delta    float64
}

// ShiftForReflow moves every timeline effect that sits fully inside a moved
// clip's old window by that clip's delta. Background effects never move, and
// an effect shifts at most once. It returns the number of effects moved.
func ShiftForReflow(effects []*timeline.Effect, shifts []WindowShift) int {
	if len(shifts) == 0 {
		return 0
	}
	moved := 0
	for _, eff := range effects {
		if eff == nil || eff.Type == timeline.EffectBackground {
			continue
		}
		for _, shift := range shifts {
			if shift.Delta == 0 {
				continue
			}
			if eff.StartTime >= shift.OldStart && eff.EndTime <= shift.OldEnd {
				eff.StartTime += shift.Delta
				eff.EndTime += shift.Delta
				moved++
				break
			}
		}
	}
	return moved
}
