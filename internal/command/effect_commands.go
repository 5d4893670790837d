package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

type addEffect struct {
	env    Env
	name   string
	effect *timeline.Effect
	// invalid is a payload error found at construction.
	invalid error
	// exclusive rejects overlap with another effect of the same type.
	exclusive bool

	singleton *singletonState
}

// NewAddEffect adds effect to the timeline. An empty id is generated once so
// redo re-adds the same effect.
func NewAddEffect(env Env, effect *timeline.Effect) Command {
	return New(&addEffect{env: env, name: "add-effect", effect: withID(effect)})
}

// NewAddZoomBlock adds a zoom block over [start, end). Zoom blocks may not
// overlap each other.
func NewAddZoomBlock(env Env, start, end float64, data timeline.ZoomData) Command {
	payload, err := timeline.PayloadOf(data)
	if err != nil {
		err = preconditionf("zoom data: %v", err)
	}
	eff := &timeline.Effect{Type: timeline.EffectZoom, StartTime: start, EndTime: end, Data: payload, Enabled: true}
	return New(&addEffect{env: env, name: "add-zoom-block", effect: withID(eff), exclusive: true, invalid: err})
}

func withID(effect *timeline.Effect) *timeline.Effect {
	eff := effect.Clone()
	if eff != nil && eff.ID == "" {
		eff.ID = string(eff.Type) + "-" + uuid.NewString()
	}
	return eff
}

func (c *addEffect) Metadata() Metadata {
	desc := "Add effect"
	if c.effect != nil {
		desc = fmt.Sprintf("Add %s effect %.0f-%.0fms", c.effect.Type, c.effect.StartTime, c.effect.EndTime)
	}
	return Metadata{Name: c.name, Category: "effect", Description: desc}
}

func (c *addEffect) CanExecute(context.Context) error {
	if c.effect == nil {
		return preconditionf("no effect to add")
	}
	if c.invalid != nil {
		return c.invalid
	}
	if !c.effect.Type.Valid() {
		return preconditionf("unknown effect type %q", c.effect.Type)
	}
	if c.effect.StartTime < 0 || c.effect.StartTime >= c.effect.EndTime {
		return preconditionf("effect span %.3f-%.3f is empty or negative", c.effect.StartTime, c.effect.EndTime)
	}
	if c.exclusive {
		return checkOverlap(c.env.Project(), c.effect.Type, "", c.effect.StartTime, c.effect.EndTime)
	}
	return nil
}

func (c *addEffect) DoExecute(context.Context) (any, error) {
	c.singleton = captureSingleton(c.env.Project(), c.effect.Type)
	if err := c.env.Store().AddEffect(c.effect.Clone()); err != nil {
		return nil, err
	}
	return c.effect.ID, nil
}

func (c *addEffect) DoUndo(context.Context) error {
	if err := c.env.Store().RemoveEffect(c.effect.ID); err != nil {
		return err
	}
	return c.singleton.restore(c.env)
}

type removeEffect struct {
	env      Env
	name     string
	effectID string
	kind     timeline.EffectType

	removed *timeline.Effect
	index   int
}

// NewRemoveEffect removes a timeline effect. Legacy recording-scoped effects
// are read-only here.
func NewRemoveEffect(env Env, effectID string) Command {
	return New(&removeEffect{env: env, name: "remove-effect", effectID: effectID})
}

// NewRemoveZoomBlock removes a zoom block.
func NewRemoveZoomBlock(env Env, effectID string) Command {
	return New(&removeEffect{env: env, name: "remove-zoom-block", effectID: effectID, kind: timeline.EffectZoom})
}

func (c *removeEffect) Metadata() Metadata {
	return Metadata{Name: c.name, Category: "effect", Description: fmt.Sprintf("Remove effect %s", c.effectID)}
}

func (c *removeEffect) CanExecute(context.Context) error {
	_, err := timelineEffect(c.env, c.effectID, c.kind)
	return err
}

func (c *removeEffect) DoExecute(context.Context) (any, error) {
	eff, err := timelineEffect(c.env, c.effectID, c.kind)
	if err != nil {
		return nil, err
	}
	loc, _ := effects.Find(c.env.Project(), c.effectID)
	c.removed = eff.Clone()
	c.index = loc.Index
	if err := c.env.Store().RemoveEffect(c.effectID); err != nil {
		return nil, err
	}
	return c.effectID, nil
}

func (c *removeEffect) DoUndo(context.Context) error {
	return c.env.Store().RestoreEffect(c.removed.Clone(), c.index)
}

type updateEffect struct {
	env      Env
	name     string
	effectID string
	kind     timeline.EffectType
	patch    effects.Patch

	original  *timeline.Effect
	singleton *singletonState
}

// NewUpdateEffect applies patch to the effect; data is deep-merged.
func NewUpdateEffect(env Env, effectID string, patch effects.Patch) Command {
	return New(&updateEffect{env: env, name: "update-effect", effectID: effectID, patch: patch})
}

// NewUpdateZoomBlock applies patch to a zoom block, keeping zoom blocks
// disjoint.
func NewUpdateZoomBlock(env Env, effectID string, patch effects.Patch) Command {
	return New(&updateEffect{env: env, name: "update-zoom-block", effectID: effectID, kind: timeline.EffectZoom, patch: patch})
}

func (c *updateEffect) Metadata() Metadata {
	return Metadata{Name: c.name, Category: "effect", Description: fmt.Sprintf("Update effect %s", c.effectID)}
}

func (c *updateEffect) CanExecute(context.Context) error {
	eff, err := timelineEffect(c.env, c.effectID, c.kind)
	if err != nil {
		return err
	}
	start, end := eff.StartTime, eff.EndTime
	if c.patch.StartTime != nil {
		start = *c.patch.StartTime
	}
	if c.patch.EndTime != nil {
		end = *c.patch.EndTime
	}
	if start >= end {
		return preconditionf("effect span %.3f-%.3f is empty", start, end)
	}
	if c.kind == timeline.EffectZoom {
		return checkOverlap(c.env.Project(), c.kind, c.effectID, start, end)
	}
	return nil
}

func (c *updateEffect) DoExecute(context.Context) (any, error) {
	eff, err := timelineEffect(c.env, c.effectID, c.kind)
	if err != nil {
		return nil, err
	}
	c.original = eff.Clone()
	c.singleton = captureSingleton(c.env.Project(), eff.Type)
	if err := c.env.Store().UpdateEffect(c.effectID, c.patch); err != nil {
		return nil, err
	}
	return c.effectID, nil
}

func (c *updateEffect) DoUndo(context.Context) error {
	if err := c.env.Store().UpdateEffect(c.effectID, fullPatch(c.original)); err != nil {
		return err
	}
	return c.singleton.restore(c.env)
}

// timelineEffect resolves a timeline-scoped effect, optionally of one type.
func timelineEffect(env Env, id string, kind timeline.EffectType) (*timeline.Effect, error) {
	if id == "" {
		return nil, preconditionf("no effect selected")
	}
	loc, ok := effects.Find(env.Project(), id)
	if !ok {
		return nil, notFoundf("effect %s", id)
	}
	if loc.Scope != effects.ScopeTimeline {
		return nil, preconditionf("effect %s is stored on recording %s and is read-only", id, loc.RecordingID)
	}
	if kind != "" && loc.Effect.Type != kind {
		return nil, preconditionf("effect %s is %s, not %s", id, loc.Effect.Type, kind)
	}
	return loc.Effect, nil
}

func checkOverlap(project *timeline.Project, kind timeline.EffectType, skipID string, start, end float64) error {
	for _, eff := range effects.InRange(project.Timeline.Effects, start, end) {
		if eff.Type == kind && eff.ID != skipID && eff.Enabled {
			return preconditionf("%s block overlaps %s (%.0f-%.0fms)", kind, eff.ID, eff.StartTime, eff.EndTime)
		}
	}
	return nil
}
