package testsupport

import (
	"testing"

	"reelcut/internal/timeline"
)

// ProjectOption customizes the fixture project.
type ProjectOption func(*timeline.Project)

// NewProject returns a contiguous three-clip project over one recording.
//
//	clip-a  0-4000      source 0-4000     rate 1
//	clip-b  4000-7000   source 4000-10000 rate 2
//	clip-c  7000-12000  source 10000-15000 rate 1
//
// The recording carries two typing runs (2000-3000 and 12000-14000 in
// source time), a zoom block sits over clip-c and a screen block over
// clip-a.
func NewProject(t testing.TB, opts ...ProjectOption) *timeline.Project {
	t.Helper()

	var keys []timeline.KeyboardEvent
	for ts := 2000.0; ts <= 3000; ts += 100 {
		keys = append(keys, timeline.KeyboardEvent{Timestamp: ts, Key: "k"})
	}
	for ts := 12000.0; ts <= 14000; ts += 200 {
		keys = append(keys, timeline.KeyboardEvent{Timestamp: ts, Key: "k"})
	}

	project := &timeline.Project{
		Recordings: []*timeline.Recording{{
			ID:       "rec-1",
			FilePath: "/recordings/rec-1.mov",
			Duration: 20000,
			Width:    2880,
			Height:   1800,
			Metadata: &timeline.RecordingMetadata{
				KeyboardEvents: keys,
				MouseEvents: []timeline.MouseEvent{
					{Timestamp: 0, X: 100, Y: 100, Type: "move"},
					{Timestamp: 5000, X: 800, Y: 600, Type: "click"},
				},
			},
		}},
		Timeline: timeline.Timeline{
			Tracks: []*timeline.Track{{
				ID:   "video-1",
				Type: timeline.TrackVideo,
				Clips: []*timeline.Clip{
					{ID: "clip-a", RecordingID: "rec-1", StartTime: 0, Duration: 4000, SourceIn: 0, SourceOut: 4000, PlaybackRate: 1},
					{ID: "clip-b", RecordingID: "rec-1", StartTime: 4000, Duration: 3000, SourceIn: 4000, SourceOut: 10000, PlaybackRate: 2},
					{ID: "clip-c", RecordingID: "rec-1", StartTime: 7000, Duration: 5000, SourceIn: 10000, SourceOut: 15000, PlaybackRate: 1},
				},
			}},
			Effects: []*timeline.Effect{
				{ID: "zoom-1", Type: timeline.EffectZoom, StartTime: 8000, EndTime: 9000, Enabled: true, Data: timeline.Payload{"scale": 2.0, "targetX": 0.5, "targetY": 0.5}},
				{ID: "screen-1", Type: timeline.EffectScreen, StartTime: 1000, EndTime: 2000, Enabled: true, Data: timeline.Payload{"tiltX": 10.0, "tiltY": 0.0}},
			},
			Duration: 12000,
		},
		Settings: timeline.Settings{
			Resolution: timeline.Resolution{Width: 1920, Height: 1080},
			FrameRate:  60,
		},
		ModifiedAt: "2026-01-01T00:00:00Z",
	}
	for _, opt := range opts {
		opt(project)
	}
	return project
}

// WithoutEffects drops the fixture's timeline effects.
func WithoutEffects() ProjectOption {
	return func(p *timeline.Project) {
		p.Timeline.Effects = nil
	}
}
