package command

import (
	"reelcut/internal/clipops"
	"reelcut/internal/effects"
	"reelcut/internal/timeline"
)

// Env is everything a command reads from the editing session.
type Env interface {
	Project() *timeline.Project
	CurrentTime() float64
	SelectedClips() []string
	SelectedEffectLayer() *timeline.EffectLayer
	Clipboard() timeline.Clipboard
	FindClip(id string) (*timeline.Clip, *timeline.Track, bool)
	FindRecording(id string) (*timeline.Recording, bool)
	Store() Store
}

// Removed reports where a removed clip used to live.
type Removed struct {
	Clip    *timeline.Clip
	TrackID string
	Index   int
}

// UpdateOptions tunes Store.UpdateClip.
type UpdateOptions struct {
	// Exact applies the update verbatim without recomputing the duration.
	// Undo uses it to restore a snapshot.
	Exact bool
}

// Store is every mutation a command performs on the project. Commands call
// nothing else.
type Store interface {
	AddClip(trackID string, clip *timeline.Clip) (string, error)
	RemoveClip(clipID string) (Removed, error)
	UpdateClip(clipID string, update clipops.Update, opts UpdateOptions) error
	RestoreClip(trackID string, clip *timeline.Clip, index int) error
	SplitClip(clipID string, splitTime float64) (string, string, error)
	DuplicateClip(clipID string) (string, error)
	TrimClipStart(clipID string, newStart float64) error
	TrimClipEnd(clipID string, newEnd float64) error
	SelectClip(clipID string, multi bool)

	AddEffect(effect *timeline.Effect) error
	RemoveEffect(effectID string) error
	RestoreEffect(effect *timeline.Effect, index int) error
	UpdateEffect(effectID string, patch effects.Patch) error
	EffectsForClip(clipID string) []*timeline.Effect
	EffectsInTimeRange(start, end float64) []*timeline.Effect

	CopyClip(clip *timeline.Clip)
	CopyEffect(kind timeline.EffectType, data timeline.Payload, sourceClipID string, length float64)
	ClearClipboard()
}
