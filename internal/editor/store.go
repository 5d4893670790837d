package editor

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelcut/internal/clipops"
	"reelcut/internal/command"
	"reelcut/internal/effects"
	"reelcut/internal/logging"
	"reelcut/internal/timeline"
)

// Store is the in-memory editing session over one project.
type Store struct {
	mu        sync.RWMutex
	project   *timeline.Project
	selection []string
	layer     *timeline.EffectLayer
	clipboard timeline.Clipboard
	playhead  float64

	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for split ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore opens a session over project and makes sure the project-wide
// background and cursor effects exist.
func NewStore(project *timeline.Project, opts ...Option) *Store {
	if project == nil {
		project = &timeline.Project{}
	}
	s := &Store{
		project: project,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "editor")
	created := effects.EnsureGlobals(project, func() string { return s.newID() })
	if len(created) > 0 {
		s.logger.Debug("created global effects", logging.Int("count", len(created)))
	}
	return s
}

// Env returns the command environment backed by this store.
func (s *Store) Env() *Context {
	return &Context{store: s}
}

// View runs fn with the project under a read lock.
func (s *Store) View(fn func(project *timeline.Project)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.project)
}

// SetPlayhead moves the playhead to t milliseconds.
func (s *Store) SetPlayhead(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t < 0 {
		t = 0
	}
	s.playhead = t
}

// SelectEffectLayer selects an effect layer; nil clears it.
func (s *Store) SelectEffectLayer(layer *timeline.EffectLayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layer == nil {
		s.layer = nil
		return
	}
	cp := *layer
	s.layer = &cp
}

func (s *Store) AddClip(trackID string, clip *timeline.Clip) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clip != nil && clip.ID == "" {
		clip.ID = "clip-" + s.newID()
	}
	if err := clipops.AddClip(s.project, trackID, clip); err != nil {
		return "", err
	}
	s.logger.Debug("clip added", logging.String("clip_id", clip.ID), logging.String("track_id", trackID))
	return clip.ID, nil
}

func (s *Store) RemoveClip(clipID string) (command.Removed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, trackID, index, err := clipops.RemoveClip(s.project, clipID)
	if err != nil {
		return command.Removed{}, err
	}
	s.selection = slices.DeleteFunc(s.selection, func(id string) bool { return id == clipID })
	s.logger.Debug("clip removed", logging.String("clip_id", clipID), logging.Int("index", index))
	return command.Removed{Clip: clip, TrackID: trackID, Index: index}, nil
}

func (s *Store) UpdateClip(clipID string, update clipops.Update, opts command.UpdateOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := clipops.UpdateClip(s.project, clipID, update, opts.Exact)
	return err
}

func (s *Store) RestoreClip(trackID string, clip *timeline.Clip, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clipops.RestoreClip(s.project, trackID, clip, index)
}

func (s *Store) SplitClip(clipID string, splitTime float64) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	first, second, err := clipops.SplitClip(s.project, clipID, splitTime, s.now())
	if err != nil {
		return "", "", err
	}
	s.logger.Debug("clip split",
		logging.String("clip_id", clipID),
		logging.String("first_id", first.ID),
		logging.String("second_id", second.ID),
	)
	return first.ID, second.ID, nil
}

func (s *Store) DuplicateClip(clipID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup, err := clipops.DuplicateClip(s.project, clipID, "clip-"+s.newID())
	if err != nil {
		return "", err
	}
	return dup.ID, nil
}

func (s *Store) TrimClipStart(clipID string, newStart float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clipops.TrimClipStart(s.project, clipID, newStart)
}

func (s *Store) TrimClipEnd(clipID string, newEnd float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clipops.TrimClipEnd(s.project, clipID, newEnd)
}

// SelectClip selects a clip. With multi the clip is toggled in the current
// selection; an empty id clears it.
func (s *Store) SelectClip(clipID string, multi bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case clipID == "":
		s.selection = nil
	case !multi:
		s.selection = []string{clipID}
	case slices.Contains(s.selection, clipID):
		s.selection = slices.DeleteFunc(s.selection, func(id string) bool { return id == clipID })
	default:
		s.selection = append(s.selection, clipID)
	}
}

func (s *Store) AddEffect(effect *timeline.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return effects.Add(s.project, effect)
}

// RestoreEffect puts a removed timeline effect back at index.
func (s *Store) RestoreEffect(effect *timeline.Effect, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return effects.Insert(s.project, effect, index)
}

func (s *Store) RemoveEffect(effectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := effects.Remove(s.project, effectID)
	if err == nil && s.layer != nil && s.layer.ID == effectID {
		s.layer = nil
	}
	return err
}

func (s *Store) UpdateEffect(effectID string, patch effects.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := effects.Update(s.project, effectID, patch)
	return err
}

func (s *Store) EffectsForClip(clipID string) []*timeline.Effect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clip, _, _ := clipops.FindClip(s.project, clipID)
	return effects.ForClip(s.project, clip)
}

func (s *Store) EffectsInTimeRange(start, end float64) []*timeline.Effect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return effects.InRange(s.project.Timeline.Effects, start, end)
}

// CopyClip replaces the clipboard with a copy of clip.
func (s *Store) CopyClip(clip *timeline.Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = timeline.Clipboard{Clip: clip.Clone()}
}

// CopyEffect replaces the clipboard with an effect payload.
func (s *Store) CopyEffect(kind timeline.EffectType, data timeline.Payload, sourceClipID string, length float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = timeline.Clipboard{Effect: &timeline.CopiedEffect{
		Type:         kind,
		Data:         data.Clone(),
		SourceClipID: sourceClipID,
		Length:       length,
	}}
}

func (s *Store) ClearClipboard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = timeline.Clipboard{}
}

var _ command.Store = (*Store)(nil)
