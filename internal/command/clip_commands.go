package command

import (
	"context"
	"fmt"

	"reelcut/internal/clipops"
	"reelcut/internal/timeline"
)

func findClip(env Env, id string) (*timeline.Clip, *timeline.Track, error) {
	if id == "" {
		return nil, nil, preconditionf("no clip selected")
	}
	clip, track, ok := env.FindClip(id)
	if !ok || clip == nil {
		return nil, nil, notFoundf("clip %s", id)
	}
	return clip, track, nil
}

type addClip struct {
	env     Env
	trackID string
	clip    *timeline.Clip
	before  []effectSpan
}

// NewAddClip adds a copy of clip to the track. An empty clip id is assigned
// by the store on first execution and reused on redo.
func NewAddClip(env Env, trackID string, clip *timeline.Clip) Command {
	return New(&addClip{env: env, trackID: trackID, clip: clip.Clone()})
}

func (c *addClip) Metadata() Metadata {
	return Metadata{Name: "add-clip", Category: "clip", Description: fmt.Sprintf("Add clip to track %s", c.trackID)}
}

func (c *addClip) CanExecute(context.Context) error {
	if c.clip == nil {
		return preconditionf("no clip to add")
	}
	if _, ok := c.env.Project().Track(c.trackID); !ok {
		return notFoundf("track %s", c.trackID)
	}
	if c.clip.RecordingID != "" {
		if _, ok := c.env.FindRecording(c.clip.RecordingID); !ok {
			return notFoundf("recording %s", c.clip.RecordingID)
		}
	}
	if c.clip.SourceIn > c.clip.SourceOut {
		return preconditionf("sourceIn %.3f after sourceOut %.3f", c.clip.SourceIn, c.clip.SourceOut)
	}
	return nil
}

func (c *addClip) DoExecute(context.Context) (any, error) {
	c.before = captureSpans(c.env.Project())
	id, err := c.env.Store().AddClip(c.trackID, c.clip.Clone())
	if err != nil {
		return nil, err
	}
	c.clip.ID = id
	return id, nil
}

func (c *addClip) DoUndo(context.Context) error {
	if _, err := c.env.Store().RemoveClip(c.clip.ID); err != nil {
		return err
	}
	return restoreSpans(c.env, c.before)
}

type removeClip struct {
	env     Env
	clipID  string
	removed Removed
	before  []effectSpan
}

// NewRemoveClip removes the clip; undo reinserts it at its old index.
func NewRemoveClip(env Env, clipID string) Command {
	return New(&removeClip{env: env, clipID: clipID})
}

func (c *removeClip) Metadata() Metadata {
	return Metadata{Name: "remove-clip", Category: "clip", Description: fmt.Sprintf("Remove clip %s", c.clipID)}
}

func (c *removeClip) CanExecute(context.Context) error {
	_, _, err := findClip(c.env, c.clipID)
	return err
}

func (c *removeClip) DoExecute(context.Context) (any, error) {
	c.before = captureSpans(c.env.Project())
	removed, err := c.env.Store().RemoveClip(c.clipID)
	if err != nil {
		return nil, err
	}
	removed.Clip = removed.Clip.Clone()
	c.removed = removed
	return removed.Clip.ID, nil
}

func (c *removeClip) DoUndo(context.Context) error {
	if err := c.env.Store().RestoreClip(c.removed.TrackID, c.removed.Clip.Clone(), c.removed.Index); err != nil {
		return err
	}
	return restoreSpans(c.env, c.before)
}

// SplitResult names the clips a split produced.
type SplitResult struct {
	FirstID  string
	SecondID string
}

type splitClip struct {
	env       Env
	clipID    string
	splitTime float64

	original *timeline.Clip
	trackID  string
	index    int
	first    *timeline.Clip
	second   *timeline.Clip
	before   []effectSpan
	after    []effectSpan
}

// NewSplitClip splits the clip at the timeline position splitTime. Redo
// restores the halves with the ids the first execution produced.
func NewSplitClip(env Env, clipID string, splitTime float64) Command {
	return New(&splitClip{env: env, clipID: clipID, splitTime: splitTime})
}

func (c *splitClip) Metadata() Metadata {
	return Metadata{Name: "split-clip", Category: "clip", Description: fmt.Sprintf("Split clip %s at %.0fms", c.clipID, c.splitTime)}
}

func (c *splitClip) CanExecute(context.Context) error {
	clip, _, err := findClip(c.env, c.clipID)
	if err != nil {
		return err
	}
	if c.splitTime <= clip.StartTime || c.splitTime >= clip.End() {
		return preconditionf("split point %.3f outside clip %s (%.3f-%.3f)", c.splitTime, c.clipID, clip.StartTime, clip.End())
	}
	return nil
}

func (c *splitClip) DoExecute(context.Context) (any, error) {
	clip, track, err := findClip(c.env, c.clipID)
	if err != nil {
		return nil, err
	}
	c.original = clip.Clone()
	c.trackID = track.ID
	c.index = track.IndexOf(clip.ID)
	c.before = captureSpans(c.env.Project())

	firstID, secondID, err := c.env.Store().SplitClip(c.clipID, c.splitTime)
	if err != nil {
		return nil, err
	}
	first, _, err := findClip(c.env, firstID)
	if err != nil {
		return nil, err
	}
	second, _, err := findClip(c.env, secondID)
	if err != nil {
		return nil, err
	}
	c.first, c.second = first.Clone(), second.Clone()
	c.after = captureSpans(c.env.Project())
	c.env.Store().SelectClip(secondID, false)
	return SplitResult{FirstID: firstID, SecondID: secondID}, nil
}

func (c *splitClip) DoUndo(context.Context) error {
	store := c.env.Store()
	if _, err := store.RemoveClip(c.second.ID); err != nil {
		return err
	}
	if _, err := store.RemoveClip(c.first.ID); err != nil {
		return err
	}
	if err := store.RestoreClip(c.trackID, c.original.Clone(), c.index); err != nil {
		return err
	}
	store.SelectClip(c.original.ID, false)
	return restoreSpans(c.env, c.before)
}

func (c *splitClip) DoRedo(context.Context) (any, error) {
	store := c.env.Store()
	if _, err := store.RemoveClip(c.original.ID); err != nil {
		return nil, err
	}
	if err := store.RestoreClip(c.trackID, c.first.Clone(), c.index); err != nil {
		return nil, err
	}
	if err := store.RestoreClip(c.trackID, c.second.Clone(), c.index+1); err != nil {
		return nil, err
	}
	if err := restoreSpans(c.env, c.after); err != nil {
		return nil, err
	}
	store.SelectClip(c.second.ID, false)
	return SplitResult{FirstID: c.first.ID, SecondID: c.second.ID}, nil
}

// Edge selects which boundary a trim moves.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

type trimClip struct {
	env    Env
	clipID string
	edge   Edge
	at     float64

	original *timeline.Clip
	before   []effectSpan
}

// NewTrimStart moves the clip's start boundary to the timeline position at.
func NewTrimStart(env Env, clipID string, at float64) Command {
	return New(&trimClip{env: env, clipID: clipID, edge: EdgeStart, at: at})
}

// NewTrimEnd moves the clip's end boundary to the timeline position at.
func NewTrimEnd(env Env, clipID string, at float64) Command {
	return New(&trimClip{env: env, clipID: clipID, edge: EdgeEnd, at: at})
}

func (c *trimClip) Metadata() Metadata {
	return Metadata{Name: "trim-" + string(c.edge), Category: "clip", Description: fmt.Sprintf("Trim %s of clip %s to %.0fms", c.edge, c.clipID, c.at)}
}

func (c *trimClip) CanExecute(context.Context) error {
	clip, _, err := findClip(c.env, c.clipID)
	if err != nil {
		return err
	}
	if c.at <= clip.StartTime || c.at >= clip.End() {
		return preconditionf("trim point %.3f outside clip %s (%.3f-%.3f)", c.at, c.clipID, clip.StartTime, clip.End())
	}
	return nil
}

func (c *trimClip) DoExecute(context.Context) (any, error) {
	clip, _, err := findClip(c.env, c.clipID)
	if err != nil {
		return nil, err
	}
	c.original = clip.Clone()
	c.before = captureSpans(c.env.Project())
	if c.edge == EdgeStart {
		err = c.env.Store().TrimClipStart(c.clipID, c.at)
	} else {
		err = c.env.Store().TrimClipEnd(c.clipID, c.at)
	}
	if err != nil {
		return nil, err
	}
	return c.clipID, nil
}

func (c *trimClip) DoUndo(context.Context) error {
	if err := restoreClip(c.env, c.original); err != nil {
		return err
	}
	return restoreSpans(c.env, c.before)
}

type duplicateClip struct {
	env    Env
	clipID string

	dup     *timeline.Clip
	trackID string
	index   int
	before  []effectSpan
	after   []effectSpan
}

// NewDuplicateClip inserts a copy of the clip right after it.
func NewDuplicateClip(env Env, clipID string) Command {
	return New(&duplicateClip{env: env, clipID: clipID})
}

func (c *duplicateClip) Metadata() Metadata {
	return Metadata{Name: "duplicate-clip", Category: "clip", Description: fmt.Sprintf("Duplicate clip %s", c.clipID)}
}

func (c *duplicateClip) CanExecute(context.Context) error {
	_, _, err := findClip(c.env, c.clipID)
	return err
}

func (c *duplicateClip) DoExecute(context.Context) (any, error) {
	c.before = captureSpans(c.env.Project())
	newID, err := c.env.Store().DuplicateClip(c.clipID)
	if err != nil {
		return nil, err
	}
	dup, track, err := findClip(c.env, newID)
	if err != nil {
		return nil, err
	}
	c.dup = dup.Clone()
	c.trackID = track.ID
	c.index = track.IndexOf(newID)
	c.after = captureSpans(c.env.Project())
	c.env.Store().SelectClip(newID, false)
	return newID, nil
}

func (c *duplicateClip) DoUndo(context.Context) error {
	if _, err := c.env.Store().RemoveClip(c.dup.ID); err != nil {
		return err
	}
	c.env.Store().SelectClip(c.clipID, false)
	return restoreSpans(c.env, c.before)
}

func (c *duplicateClip) DoRedo(context.Context) (any, error) {
	if err := c.env.Store().RestoreClip(c.trackID, c.dup.Clone(), c.index); err != nil {
		return nil, err
	}
	if err := restoreSpans(c.env, c.after); err != nil {
		return nil, err
	}
	c.env.Store().SelectClip(c.dup.ID, false)
	return c.dup.ID, nil
}

type updateClip struct {
	env    Env
	clipID string
	update clipops.Update

	original *timeline.Clip
	trackID  string
	index    int
	before   []effectSpan
}

// NewUpdateClip applies a partial update to the clip.
func NewUpdateClip(env Env, clipID string, update clipops.Update) Command {
	return New(&updateClip{env: env, clipID: clipID, update: update})
}

func (c *updateClip) Metadata() Metadata {
	return Metadata{Name: "update-clip", Category: "clip", Description: fmt.Sprintf("Update clip %s", c.clipID)}
}

func (c *updateClip) CanExecute(context.Context) error {
	if _, _, err := findClip(c.env, c.clipID); err != nil {
		return err
	}
	if c.update.Empty() {
		return preconditionf("no clip fields to update")
	}
	return nil
}

func (c *updateClip) DoExecute(context.Context) (any, error) {
	clip, track, err := findClip(c.env, c.clipID)
	if err != nil {
		return nil, err
	}
	c.original = clip.Clone()
	c.trackID = track.ID
	c.index = track.IndexOf(clip.ID)
	c.before = captureSpans(c.env.Project())
	if err := c.env.Store().UpdateClip(c.clipID, c.update, UpdateOptions{}); err != nil {
		return nil, err
	}
	return c.clipID, nil
}

func (c *updateClip) DoUndo(context.Context) error {
	if c.update.StartTime != nil {
		// A start-time change may have reordered the track; put the clip
		// back at its old index instead.
		if _, err := c.env.Store().RemoveClip(c.clipID); err != nil {
			return err
		}
		if err := c.env.Store().RestoreClip(c.trackID, c.original.Clone(), c.index); err != nil {
			return err
		}
	} else if err := restoreClip(c.env, c.original); err != nil {
		return err
	}
	return restoreSpans(c.env, c.before)
}
