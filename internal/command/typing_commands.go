package command

import (
	"context"
	"errors"
	"fmt"

	"reelcut/internal/clipops"
	"reelcut/internal/timeline"
	"reelcut/internal/typing"
)

type applyTypingSpeed struct {
	env    Env
	clipID string
	opts   typing.Options

	original *timeline.Clip
	before   []effectSpan
}

// NewApplyTypingSpeed speeds up the typing runs inside the clip's source
// range by replacing its remap periods.
func NewApplyTypingSpeed(env Env, clipID string, opts typing.Options) Command {
	return New(&applyTypingSpeed{env: env, clipID: clipID, opts: opts})
}

func (c *applyTypingSpeed) Metadata() Metadata {
	return Metadata{Name: "apply-typing-speed", Category: "typing", Description: fmt.Sprintf("Speed up typing in clip %s", c.clipID)}
}

func (c *applyTypingSpeed) CanExecute(context.Context) error {
	_, err := c.plan()
	return err
}

func (c *applyTypingSpeed) plan() (typing.Plan, error) {
	clip, _, err := findClip(c.env, c.clipID)
	if err != nil {
		return typing.Plan{}, err
	}
	return planTyping(c.env, clip, c.opts)
}

func planTyping(env Env, clip *timeline.Clip, opts typing.Options) (typing.Plan, error) {
	if clip.TypingSpeedApplied {
		return typing.Plan{}, preconditionf("typing speed already applied to clip %s", clip.ID)
	}
	rec, ok := env.FindRecording(clip.RecordingID)
	if !ok {
		return typing.Plan{}, notFoundf("recording %s", clip.RecordingID)
	}
	if rec.Metadata == nil || len(rec.Metadata.KeyboardEvents) == 0 {
		return typing.Plan{}, preconditionf("recording %s has no keyboard events", rec.ID)
	}
	periods := typing.DetectPeriods(rec.Metadata.KeyboardEvents, opts)
	plan, err := typing.PlanClip(clip, periods, env.Project().Settings.FrameRate)
	if errors.Is(err, typing.ErrNoTyping) {
		return typing.Plan{}, preconditionf("clip %s: %v", clip.ID, err)
	}
	return plan, err
}

func (c *applyTypingSpeed) DoExecute(context.Context) (any, error) {
	clip, _, err := findClip(c.env, c.clipID)
	if err != nil {
		return nil, err
	}
	plan, err := planTyping(c.env, clip, c.opts)
	if err != nil {
		return nil, err
	}
	c.original = clip.Clone()
	c.before = captureSpans(c.env.Project())

	applied := true
	periods := plan.Periods
	duration := plan.Duration
	update := clipops.Update{
		TimeRemapPeriods:   &periods,
		Duration:           &duration,
		TypingSpeedApplied: &applied,
	}
	if err := c.env.Store().UpdateClip(c.clipID, update, UpdateOptions{}); err != nil {
		return nil, err
	}
	return plan, nil
}

func (c *applyTypingSpeed) DoUndo(context.Context) error {
	if err := restoreClip(c.env, c.original); err != nil {
		return err
	}
	return restoreSpans(c.env, c.before)
}

// NewApplyTypingSpeedToAllClips applies typing speed to every clip that has
// typing and has not been sped up yet, as one undoable unit.
func NewApplyTypingSpeedToAllClips(env Env, opts typing.Options) Command {
	var steps []Command
	for _, clip := range env.Project().Clips() {
		if _, err := planTyping(env, clip, opts); err != nil {
			continue
		}
		steps = append(steps, NewApplyTypingSpeed(env, clip.ID, opts))
	}
	return NewComposite(Metadata{
		Name:        "apply-typing-speed-all",
		Category:    "typing",
		Description: fmt.Sprintf("Speed up typing in %d clips", len(steps)),
	}, steps...)
}
