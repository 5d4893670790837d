package effects

import (
	"errors"
	"fmt"

	"reelcut/internal/timeline"
)

// Scope names the array an effect is stored in.
type Scope string

const (
	ScopeTimeline  Scope = "timeline"
	ScopeRecording Scope = "recording"
)

var (
	// ErrNotFound is returned when no effect carries the requested id.
	ErrNotFound = errors.New("effect not found")
	// ErrInvalid is returned for effects that violate type or span rules.
	ErrInvalid = errors.New("invalid effect")
	// ErrDuplicateID is returned when adding an effect whose id already exists.
	ErrDuplicateID = errors.New("duplicate effect id")
)

// Location describes where an effect was found.
type Location struct {
	Effect      *timeline.Effect
	Scope       Scope
	RecordingID string
	Index       int
}

// Find looks up an effect by id, checking timeline-global effects before
// falling back to each recording's legacy array.
func Find(project *timeline.Project, id string) (Location, bool) {
	if project == nil || id == "" {
		return Location{}, false
	}
	for i, eff := range project.Timeline.Effects {
		if eff != nil && eff.ID == id {
			return Location{Effect: eff, Scope: ScopeTimeline, Index: i}, true
		}
	}
	for _, rec := range project.Recordings {
		if rec == nil {
			continue
		}
		for i, eff := range rec.Effects {
			if eff != nil && eff.ID == id {
				return Location{Effect: eff, Scope: ScopeRecording, RecordingID: rec.ID, Index: i}, true
			}
		}
	}
	return Location{}, false
}

// ActiveAt returns the enabled effect of kind whose [start, end) contains t.
func ActiveAt(effects []*timeline.Effect, kind timeline.EffectType, t float64) *timeline.Effect {
	for _, eff := range effects {
		if eff == nil || !eff.Enabled || eff.Type != kind {
			continue
		}
		if eff.Contains(t) {
			return eff
		}
	}
	return nil
}

// OfType returns every effect of kind, enabled or not.
func OfType(effects []*timeline.Effect, kind timeline.EffectType) []*timeline.Effect {
	var out []*timeline.Effect
	for _, eff := range effects {
		if eff != nil && eff.Type == kind {
			out = append(out, eff)
		}
	}
	return out
}

// InRange returns effects overlapping [start, end).
func InRange(effects []*timeline.Effect, start, end float64) []*timeline.Effect {
	var out []*timeline.Effect
	for _, eff := range effects {
		if eff.Overlaps(start, end) {
			out = append(out, eff)
		}
	}
	return out
}

// ForClip returns the timeline effects overlapping the clip's timeline window
// followed by the clip recording's legacy effects overlapping its source
// range. Project-wide singletons are excluded.
func ForClip(project *timeline.Project, clip *timeline.Clip) []*timeline.Effect {
	if project == nil || clip == nil {
		return nil
	}
	var out []*timeline.Effect
	for _, eff := range InRange(project.Timeline.Effects, clip.StartTime, clip.End()) {
		if !eff.Type.Singleton() {
			out = append(out, eff)
		}
	}
	if rec, ok := project.Recording(clip.RecordingID); ok {
		for _, eff := range InRange(rec.Effects, clip.SourceIn, clip.SourceOut) {
			if !eff.Type.Singleton() {
				out = append(out, eff)
			}
		}
	}
	return out
}

// EnsureGlobals creates the default background and cursor effects when the
// project has none. It is idempotent and returns the effects it created.
func EnsureGlobals(project *timeline.Project, newID func() string) []*timeline.Effect {
	if project == nil {
		return nil
	}
	defaults := []struct {
		kind timeline.EffectType
		data timeline.Payload
	}{
		{timeline.EffectBackground, timeline.DefaultBackground()},
		{timeline.EffectCursor, timeline.DefaultCursor()},
	}
	var created []*timeline.Effect
	for _, def := range defaults {
		if hasType(project, def.kind) {
			continue
		}
		eff := &timeline.Effect{
			ID:        newID(),
			Type:      def.kind,
			StartTime: 0,
			EndTime:   timeline.Unbounded,
			Data:      def.data,
			Enabled:   true,
		}
		project.Timeline.Effects = append(project.Timeline.Effects, eff)
		created = append(created, eff)
	}
	return created
}

// Add appends the effect to the timeline-global array. Adding an enabled
// singleton disables any other enabled effect of the same type.
func Add(project *timeline.Project, effect *timeline.Effect) error {
	if project == nil {
		return fmt.Errorf("%w: nil project", ErrInvalid)
	}
	return Insert(project, effect, len(project.Timeline.Effects))
}

// Insert adds a timeline effect at index, clamped to the array bounds, so a
// removal can be reversed without changing first-match lookup order.
func Insert(project *timeline.Project, effect *timeline.Effect, index int) error {
	if project == nil || effect == nil {
		return fmt.Errorf("%w: nil effect", ErrInvalid)
	}
	if effect.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if !effect.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, effect.Type)
	}
	if err := timeline.CheckEffect(effect); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, exists := Find(project, effect.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, effect.ID)
	}
	if effect.Enabled && effect.Type.Singleton() {
		disableOthers(project, effect.Type, effect.ID)
	}
	list := project.Timeline.Effects
	index = max(0, min(index, len(list)))
	out := make([]*timeline.Effect, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, effect)
	project.Timeline.Effects = append(out, list[index:]...)
	return nil
}

// Remove deletes the effect from whichever scope holds it and returns where it
// was.
func Remove(project *timeline.Project, id string) (Location, error) {
	loc, ok := Find(project, id)
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	switch loc.Scope {
	case ScopeTimeline:
		project.Timeline.Effects = removeAt(project.Timeline.Effects, loc.Index)
	case ScopeRecording:
		rec, _ := project.Recording(loc.RecordingID)
		rec.Effects = removeAt(rec.Effects, loc.Index)
	}
	return loc, nil
}

// Patch describes a partial effect update. Nil fields are left untouched.
// Data is deep-merged into the existing payload unless ReplaceData is set.
type Patch struct {
	StartTime   *float64
	EndTime     *float64
	Enabled     *bool
	Data        timeline.Payload
	ReplaceData bool
}

// Update applies patch to the effect with the given id in place.
func Update(project *timeline.Project, id string, patch Patch) (*timeline.Effect, error) {
	loc, ok := Find(project, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	eff := loc.Effect
	start, end := eff.StartTime, eff.EndTime
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start %.3f not before end %.3f", ErrInvalid, start, end)
	}
	eff.StartTime, eff.EndTime = start, end
	if patch.Enabled != nil {
		eff.Enabled = *patch.Enabled
	}
	switch {
	case patch.ReplaceData:
		eff.Data = patch.Data.Clone()
	case patch.Data != nil:
		eff.Data = eff.Data.Merge(patch.Data)
	}
	if eff.Enabled && eff.Type.Singleton() {
		disableOthers(project, eff.Type, eff.ID)
	}
	return eff, nil
}

func hasType(project *timeline.Project, kind timeline.EffectType) bool {
	for _, eff := range project.Timeline.Effects {
		if eff != nil && eff.Type == kind {
			return true
		}
	}
	for _, rec := range project.Recordings {
		if rec == nil {
			continue
		}
		for _, eff := range rec.Effects {
			if eff != nil && eff.Type == kind {
				return true
			}
		}
	}
	return false
}

func disableOthers(project *timeline.Project, kind timeline.EffectType, keepID string) {
	disable := func(list []*timeline.Effect) {
		for _, eff := range list {
			if eff != nil && eff.Type == kind && eff.ID != keepID {
				eff.Enabled = false
			}
		}
	}
	disable(project.Timeline.Effects)
	for _, rec := range project.Recordings {
		if rec != nil {
			disable(rec.Effects)
		}
	}
}

func removeAt(list []*timeline.Effect, idx int) []*timeline.Effect {
	out := make([]*timeline.Effect, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}
