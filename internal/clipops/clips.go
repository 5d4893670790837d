package clipops

import (
	"fmt"
	"math"

	"reelcut/internal/timeline"
)

// FindClip returns the clip with id, the track holding it, and its index.
// The clip is nil when no track holds it.
func FindClip(project *timeline.Project, id string) (*timeline.Clip, *timeline.Track, int) {
	if project == nil || id == "" {
		return nil, nil, -1
	}
	for _, track := range project.Timeline.Tracks {
		if idx := track.IndexOf(id); idx >= 0 {
			return track.Clips[idx], track, idx
		}
	}
	return nil, nil, -1
}

// AddClip places clip on the track by start time and reflows the track. The
// timeline duration only grows.
func AddClip(project *timeline.Project, trackID string, clip *timeline.Clip) error {
	track, ok := project.Track(trackID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	if err := validateNew(project, clip); err != nil {
		return err
	}
	if clip.Duration <= 0 {
		clip.Duration = settledDuration(clip)
	}
	prev := project.Timeline.Duration
	track.Clips = append(track.Clips, clip)
	Reflow(project, track, len(track.Clips)-1, ReflowOptions{Inserted: []string{clip.ID}})
	project.Timeline.Duration = math.Max(prev, maxEnd(project))
	return nil
}

// RemoveClip deletes the clip with id and reports the track and index it
// occupied so the removal can be reversed with RestoreClip.
func RemoveClip(project *timeline.Project, id string) (*timeline.Clip, string, int, error) {
	clip, track, idx := FindClip(project, id)
	if clip == nil {
		return nil, "", -1, fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	clips := make([]*timeline.Clip, 0, len(track.Clips)-1)
	clips = append(clips, track.Clips[:idx]...)
	track.Clips = append(clips, track.Clips[idx+1:]...)

	if len(track.Clips) > 0 {
		Reflow(project, track, idx, ReflowOptions{PreserveOrder: true})
	}
	RecomputeDuration(project)
	return clip, track.ID, idx, nil
}

// RestoreClip inserts clip into the track at index, clamped to the track's
// bounds, and reflows from there. It reverses RemoveClip exactly.
func RestoreClip(project *timeline.Project, trackID string, clip *timeline.Clip, index int) error {
	track, ok := project.Track(trackID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	if err := validateNew(project, clip); err != nil {
		return err
	}
	if index < 0 {
		index = 0
	}
	if index > len(track.Clips) {
		index = len(track.Clips)
	}
	clips := make([]*timeline.Clip, 0, len(track.Clips)+1)
	clips = append(clips, track.Clips[:index]...)
	clips = append(clips, clip)
	track.Clips = append(clips, track.Clips[index:]...)

	Reflow(project, track, index, ReflowOptions{PreserveOrder: true, Inserted: []string{clip.ID}})
	RecomputeDuration(project)
	return nil
}

// DuplicateClip inserts a copy of the clip directly after it under newID and
// reflows from the insertion point.
func DuplicateClip(project *timeline.Project, id, newID string) (*timeline.Clip, error) {
	clip, track, idx := FindClip(project, id)
	if clip == nil {
		return nil, fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	dup := clip.Clone()
	dup.ID = newID
	dup.StartTime = clip.End()
	if err := validateNew(project, dup); err != nil {
		return nil, err
	}
	clips := make([]*timeline.Clip, 0, len(track.Clips)+1)
	clips = append(clips, track.Clips[:idx+1]...)
	clips = append(clips, dup)
	track.Clips = append(clips, track.Clips[idx+1:]...)

	prev := project.Timeline.Duration
	Reflow(project, track, idx+1, ReflowOptions{PreserveOrder: true, Inserted: []string{dup.ID}})
	project.Timeline.Duration = math.Max(prev, maxEnd(project))
	return dup, nil
}

// Update is a partial clip update. Nil fields are left untouched.
type Update struct {
	StartTime          *float64
	Duration           *float64
	SourceIn           *float64
	SourceOut          *float64
	PlaybackRate       *float64
	TimeRemapPeriods   *[]timeline.TimeRemapPeriod
	TypingSpeedApplied *bool
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u == Update{}
}

// Capture returns an exact Update restoring every field of clip.
func Capture(clip *timeline.Clip) Update {
	c := clip.Clone()
	periods := c.TimeRemapPeriods
	return Update{
		StartTime:          &c.StartTime,
		Duration:           &c.Duration,
		SourceIn:           &c.SourceIn,
		SourceOut:          &c.SourceOut,
		PlaybackRate:       &c.PlaybackRate,
		TimeRemapPeriods:   &periods,
		TypingSpeedApplied: &c.TypingSpeedApplied,
	}
}

// UpdateClip applies u to the clip with id. Unless exact is set, a change to
// the source range, rate, or remap periods without an explicit duration
// recomputes the duration. The track is reflowed afterwards.
func UpdateClip(project *timeline.Project, id string, u Update, exact bool) (*timeline.Clip, error) {
	clip, track, idx := FindClip(project, id)
	if clip == nil {
		return nil, fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	next := clip.Clone()
	apply(next, u)
	retimed := u.SourceIn != nil || u.SourceOut != nil || u.PlaybackRate != nil || u.TimeRemapPeriods != nil
	if !exact && retimed && u.Duration == nil {
		next.Duration = settledDuration(next)
	}
	if err := timeline.CheckClip(next); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClip, err)
	}
	if next.Duration <= 0 {
		return nil, fmt.Errorf("%w: clip %s duration %.3f", ErrInvalidClip, id, next.Duration)
	}
	*clip = *next

	opts := ReflowOptions{PreserveOrder: true}
	if u.StartTime != nil && !exact {
		opts.PreserveOrder = false
		idx = 0
	}
	Reflow(project, track, idx, opts)
	RecomputeDuration(project)
	return clip, nil
}

func apply(clip *timeline.Clip, u Update) {
	if u.StartTime != nil {
		clip.StartTime = *u.StartTime
	}
	if u.Duration != nil {
		clip.Duration = *u.Duration
	}
	if u.SourceIn != nil {
		clip.SourceIn = *u.SourceIn
	}
	if u.SourceOut != nil {
		clip.SourceOut = *u.SourceOut
	}
	if u.PlaybackRate != nil {
		clip.PlaybackRate = *u.PlaybackRate
	}
	if u.TimeRemapPeriods != nil {
		clip.TimeRemapPeriods = append([]timeline.TimeRemapPeriod(nil), (*u.TimeRemapPeriods)...)
		if len(clip.TimeRemapPeriods) == 0 {
			clip.TimeRemapPeriods = nil
		}
	}
	if u.TypingSpeedApplied != nil {
		clip.TypingSpeedApplied = *u.TypingSpeedApplied
	}
}

func validateNew(project *timeline.Project, clip *timeline.Clip) error {
	if clip == nil || clip.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidClip)
	}
	if existing, _, _ := FindClip(project, clip.ID); existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateClip, clip.ID)
	}
	if err := timeline.CheckClip(clip); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClip, err)
	}
	return nil
}
