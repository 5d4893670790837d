package command

import (
	"reelcut/internal/clipops"
	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

type effectSpan struct {
	id    string
	start float64
	end   float64
}

// captureSpans records the position of every movable timeline effect.
func captureSpans(project *timeline.Project) []effectSpan {
	if project == nil {
		return nil
	}
	spans := make([]effectSpan, 0, len(project.Timeline.Effects))
	for _, eff := range project.Timeline.Effects {
		if eff == nil || eff.Type == timeline.EffectBackground {
			continue
		}
		spans = append(spans, effectSpan{id: eff.ID, start: eff.StartTime, end: eff.EndTime})
	}
	return spans
}

// restoreSpans moves effects that drifted from a captured position back
// through the store. Effects that no longer exist are skipped.
func restoreSpans(env Env, spans []effectSpan) error {
	project := env.Project()
	for _, span := range spans {
		loc, ok := effects.Find(project, span.id)
		if !ok || loc.Scope != effects.ScopeTimeline {
			continue
		}
		if loc.Effect.StartTime == span.start && loc.Effect.EndTime == span.end {
			continue
		}
		start, end := span.start, span.end
		if err := env.Store().UpdateEffect(span.id, effects.Patch{StartTime: &start, EndTime: &end}); err != nil {
			return err
		}
	}
	return nil
}

// singletonState remembers which effect of a singleton type was enabled so
// an undo can hand the flag back after Add or Update disabled it.
type singletonState struct {
	kind      timeline.EffectType
	enabledID string
}

func captureSingleton(project *timeline.Project, kind timeline.EffectType) *singletonState {
	if !kind.Singleton() {
		return nil
	}
	state := &singletonState{kind: kind}
	if active := enabledOfType(project, kind); active != nil {
		state.enabledID = active.ID
	}
	return state
}

func (s *singletonState) restore(env Env) error {
	if s == nil || s.enabledID == "" {
		return nil
	}
	loc, ok := effects.Find(env.Project(), s.enabledID)
	if !ok || loc.Effect.Enabled {
		return nil
	}
	enabled := true
	return env.Store().UpdateEffect(s.enabledID, effects.Patch{Enabled: &enabled})
}

func enabledOfType(project *timeline.Project, kind timeline.EffectType) *timeline.Effect {
	if project == nil {
		return nil
	}
	for _, eff := range project.Timeline.Effects {
		if eff != nil && eff.Type == kind && eff.Enabled {
			return eff
		}
	}
	for _, rec := range project.Recordings {
		if rec == nil {
			continue
		}
		for _, eff := range rec.Effects {
			if eff != nil && eff.Type == kind && eff.Enabled {
				return eff
			}
		}
	}
	return nil
}

// restoreClip puts a clip snapshot back in place without recomputing its
// duration.
func restoreClip(env Env, snapshot *timeline.Clip) error {
	return env.Store().UpdateClip(snapshot.ID, clipops.Capture(snapshot), UpdateOptions{Exact: true})
}
