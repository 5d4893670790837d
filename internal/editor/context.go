package editor

import (
	"reelcut/internal/clipops"
	"reelcut/internal/command"
	"reelcut/internal/timeline"
)

// Context is the read side of a Store handed to commands.
type Context struct {
	store *Store
}

func (c *Context) Project() *timeline.Project {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.store.project
}

func (c *Context) CurrentTime() float64 {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.store.playhead
}

func (c *Context) SelectedClips() []string {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return append([]string(nil), c.store.selection...)
}

func (c *Context) SelectedEffectLayer() *timeline.EffectLayer {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if c.store.layer == nil {
		return nil
	}
	cp := *c.store.layer
	return &cp
}

func (c *Context) Clipboard() timeline.Clipboard {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.store.clipboard.Clone()
}

func (c *Context) FindClip(id string) (*timeline.Clip, *timeline.Track, bool) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	clip, track, _ := clipops.FindClip(c.store.project, id)
	return clip, track, clip != nil
}

func (c *Context) FindRecording(id string) (*timeline.Recording, bool) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.store.project.Recording(id)
}

func (c *Context) Store() command.Store {
	return c.store
}

var _ command.Env = (*Context)(nil)
