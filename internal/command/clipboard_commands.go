package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reelcut/internal/effects"
	"reelcut/internal/timeline"
	"reelcut/internal/timespace"
)

// defaultPasteLength is the span given to a pasted bounded effect whose copy
// carried none.
const defaultPasteLength = 3000

type copySelection struct {
	env    Env
	clipID string
	// clipOnly ignores a selected effect layer.
	clipOnly bool

	previous timeline.Clipboard
}

// NewCopy copies the selected effect layer, or failing that the first
// selected clip, to the clipboard.
func NewCopy(env Env) Command {
	return New(&copySelection{env: env})
}

func newCopyClip(env Env, clipID string) Command {
	return New(&copySelection{env: env, clipID: clipID, clipOnly: true})
}

func (c *copySelection) Metadata() Metadata {
	return Metadata{Name: "copy", Category: "clipboard", Description: "Copy selection"}
}

func (c *copySelection) CanExecute(context.Context) error {
	if !c.clipOnly {
		if _, _, ok := c.selectedEffect(); ok {
			return nil
		}
	}
	if c.targetClip() == "" {
		return preconditionf("nothing selected to copy")
	}
	_, _, err := findClip(c.env, c.targetClip())
	return err
}

func (c *copySelection) DoExecute(context.Context) (any, error) {
	c.previous = c.env.Clipboard().Clone()
	store := c.env.Store()
	if !c.clipOnly {
		if eff, sourceClipID, ok := c.selectedEffect(); ok {
			store.CopyEffect(eff.Type, eff.Data.Clone(), sourceClipID, copyLength(eff))
			return eff.ID, nil
		}
	}
	clip, _, err := findClip(c.env, c.targetClip())
	if err != nil {
		return nil, err
	}
	store.CopyClip(clip.Clone())
	return clip.ID, nil
}

func (c *copySelection) DoUndo(context.Context) error {
	store := c.env.Store()
	store.ClearClipboard()
	if c.previous.Clip != nil {
		store.CopyClip(c.previous.Clip.Clone())
	}
	if prev := c.previous.Effect; prev != nil {
		store.CopyEffect(prev.Type, prev.Data.Clone(), prev.SourceClipID, prev.Length)
	}
	return nil
}

func (c *copySelection) targetClip() string {
	if c.clipID != "" {
		return c.clipID
	}
	if selected := c.env.SelectedClips(); len(selected) > 0 {
		return selected[0]
	}
	return ""
}

// selectedEffect resolves the selected effect layer to an effect and the
// clip under the playhead it was copied from.
func (c *copySelection) selectedEffect() (*timeline.Effect, string, bool) {
	layer := c.env.SelectedEffectLayer()
	if layer == nil {
		return nil, "", false
	}
	project := c.env.Project()
	var eff *timeline.Effect
	if layer.ID != "" {
		if loc, ok := effects.Find(project, layer.ID); ok {
			eff = loc.Effect
		}
	} else if layer.Type.Singleton() {
		eff = enabledOfType(project, layer.Type)
	}
	if eff == nil {
		return nil, "", false
	}
	return eff, clipAtPlayhead(c.env), true
}

func copyLength(eff *timeline.Effect) float64 {
	if eff.Type.Singleton() || eff.EndTime == timeline.Unbounded {
		return 0
	}
	return eff.EndTime - eff.StartTime
}

func clipAtPlayhead(env Env) string {
	project := env.Project()
	if track, ok := project.TrackOfType(timeline.TrackVideo); ok {
		if clip, _ := timespace.FindClipAt(track.Clips, env.CurrentTime()); clip != nil {
			return clip.ID
		}
	}
	return ""
}

// NewCut copies the first selected clip and removes it as one undoable unit.
func NewCut(env Env) Command {
	clipID := ""
	if selected := env.SelectedClips(); len(selected) > 0 {
		clipID = selected[0]
	}
	return NewComposite(
		Metadata{Name: "cut", Category: "clipboard", Description: fmt.Sprintf("Cut clip %s", clipID)},
		newCopyClip(env, clipID),
		NewRemoveClip(env, clipID),
	)
}

type paste struct {
	env Env

	// clip paste
	pasted  *timeline.Clip
	trackID string
	index   int
	// effect paste
	added     *timeline.Effect
	merged    *timeline.Effect
	mergeData timeline.Payload
	singleton *singletonState

	before []effectSpan
	after  []effectSpan
}

// NewPaste inserts the clipboard clip after the clip under the playhead, or
// applies the clipboard effect: singleton effects are merged into the
// project's existing one, bounded effects are placed at the playhead.
func NewPaste(env Env) Command {
	return New(&paste{env: env})
}

func (c *paste) Metadata() Metadata {
	return Metadata{Name: "paste", Category: "clipboard", Description: "Paste clipboard"}
}

func (c *paste) CanExecute(context.Context) error {
	board := c.env.Clipboard()
	if board.Empty() {
		return preconditionf("clipboard is empty")
	}
	if board.Clip != nil {
		if _, ok := c.env.Project().TrackOfType(timeline.TrackVideo); !ok {
			return notFoundf("video track")
		}
	}
	return nil
}

func (c *paste) DoExecute(context.Context) (any, error) {
	board := c.env.Clipboard().Clone()
	c.before = captureSpans(c.env.Project())
	var (
		out any
		err error
	)
	if board.Clip != nil {
		out, err = c.pasteClip(board.Clip)
	} else {
		out, err = c.pasteEffect(board.Effect)
	}
	if err != nil {
		return nil, err
	}
	c.after = captureSpans(c.env.Project())
	return out, nil
}

func (c *paste) pasteClip(source *timeline.Clip) (any, error) {
	project := c.env.Project()
	track, _ := project.TrackOfType(timeline.TrackVideo)
	index := len(track.Clips)
	if _, idx := timespace.FindClipAt(track.Clips, c.env.CurrentTime()); idx >= 0 {
		index = idx + 1
	}
	clip := source.Clone()
	clip.ID = "clip-" + uuid.NewString()
	if err := c.env.Store().RestoreClip(track.ID, clip.Clone(), index); err != nil {
		return nil, err
	}
	c.pasted, c.trackID, c.index = clip, track.ID, index
	c.env.Store().SelectClip(clip.ID, false)
	return clip.ID, nil
}

func (c *paste) pasteEffect(copied *timeline.CopiedEffect) (any, error) {
	project := c.env.Project()
	store := c.env.Store()
	if copied.Type.Singleton() {
		if existing := firstOfType(project, copied.Type); existing != nil {
			c.merged = existing.Clone()
			c.mergeData = copied.Data.Clone()
			c.singleton = captureSingleton(project, copied.Type)
			enabled := true
			if err := store.UpdateEffect(existing.ID, effects.Patch{Data: copied.Data.Clone(), Enabled: &enabled}); err != nil {
				return nil, err
			}
			return existing.ID, nil
		}
	}
	start := c.env.CurrentTime()
	end := timeline.Unbounded
	if !copied.Type.Singleton() {
		length := copied.Length
		if length <= 0 {
			length = defaultPasteLength
		}
		end = start + length
	} else {
		start = 0
	}
	eff := &timeline.Effect{
		ID:        string(copied.Type) + "-" + uuid.NewString(),
		Type:      copied.Type,
		StartTime: start,
		EndTime:   end,
		Data:      copied.Data.Clone(),
		Enabled:   true,
	}
	c.singleton = captureSingleton(project, copied.Type)
	if err := store.AddEffect(eff.Clone()); err != nil {
		return nil, err
	}
	c.added = eff
	return eff.ID, nil
}

func (c *paste) DoUndo(context.Context) error {
	store := c.env.Store()
	switch {
	case c.pasted != nil:
		if _, err := store.RemoveClip(c.pasted.ID); err != nil {
			return err
		}
	case c.added != nil:
		if err := store.RemoveEffect(c.added.ID); err != nil {
			return err
		}
	case c.merged != nil:
		if err := store.UpdateEffect(c.merged.ID, fullPatch(c.merged)); err != nil {
			return err
		}
	}
	if err := c.singleton.restore(c.env); err != nil {
		return err
	}
	return restoreSpans(c.env, c.before)
}

func (c *paste) DoRedo(context.Context) (any, error) {
	store := c.env.Store()
	var id string
	switch {
	case c.pasted != nil:
		if err := store.RestoreClip(c.trackID, c.pasted.Clone(), c.index); err != nil {
			return nil, err
		}
		id = c.pasted.ID
	case c.added != nil:
		if err := store.AddEffect(c.added.Clone()); err != nil {
			return nil, err
		}
		id = c.added.ID
	case c.merged != nil:
		enabled := true
		if err := store.UpdateEffect(c.merged.ID, effects.Patch{Data: c.mergeData.Clone(), Enabled: &enabled}); err != nil {
			return nil, err
		}
		id = c.merged.ID
	}
	if err := restoreSpans(c.env, c.after); err != nil {
		return nil, err
	}
	return id, nil
}

func firstOfType(project *timeline.Project, kind timeline.EffectType) *timeline.Effect {
	if eff := enabledOfType(project, kind); eff != nil {
		return eff
	}
	found := effects.OfType(project.Timeline.Effects, kind)
	if len(found) > 0 {
		return found[0]
	}
	return nil
}

// fullPatch restores every mutable field of snapshot, replacing its data.
func fullPatch(snapshot *timeline.Effect) effects.Patch {
	start, end, enabled := snapshot.StartTime, snapshot.EndTime, snapshot.Enabled
	return effects.Patch{
		StartTime:   &start,
		EndTime:     &end,
		Enabled:     &enabled,
		Data:        snapshot.Data.Clone(),
		ReplaceData: true,
	}
}
