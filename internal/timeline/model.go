package timeline

// TrackType identifies the kind of clips a track holds.
type TrackType string

const (
	TrackVideo TrackType = "video"
	TrackAudio TrackType = "audio"
	TrackZoom  TrackType = "zoom"
)

// Project is the aggregate root of an edit. It is mutated in place by the
// editing store and never replaced wholesale while a command runs.
type Project struct {
	Recordings []*Recording `json:"recordings"`
	Timeline   Timeline     `json:"timeline"`
	Settings   Settings     `json:"settings"`
	ModifiedAt string       `json:"modifiedAt"`
}

// Timeline holds the tracks, the timeline-global effects, and the total
// timeline duration.
type Timeline struct {
	Tracks   []*Track  `json:"tracks"`
	Effects  []*Effect `json:"effects"`
	Duration float64   `json:"duration"`
}

// Settings carries project-level output settings.
type Settings struct {
	Resolution      Resolution `json:"resolution"`
	FrameRate       int        `json:"frameRate"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
}

// Resolution describes output dimensions in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Recording is a captured source. Metadata event streams are in source space
// and are treated as immutable ground truth.
type Recording struct {
	ID       string             `json:"id"`
	FilePath string             `json:"filePath"`
	Duration float64            `json:"duration"`
	Width    int                `json:"width,omitempty"`
	Height   int                `json:"height,omitempty"`
	Metadata *RecordingMetadata `json:"metadata,omitempty"`
	// Effects is the legacy recording-scoped effect array, positioned in
	// source space.
	Effects []*Effect `json:"effects,omitempty"`
}

// RecordingMetadata holds input event streams captured alongside a recording.
type RecordingMetadata struct {
	MouseEvents    []MouseEvent    `json:"mouseEvents,omitempty"`
	KeyboardEvents []KeyboardEvent `json:"keyboardEvents,omitempty"`
}

// MouseEvent is a pointer sample in source space.
type MouseEvent struct {
	Timestamp float64 `json:"timestamp"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Type      string  `json:"type,omitempty"`
}

// KeyboardEvent is a key press in source space.
type KeyboardEvent struct {
	Timestamp float64  `json:"timestamp"`
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// Track is an ordered sequence of clips of one kind. Slice order is the
// layout source of truth.
type Track struct {
	ID    string    `json:"id"`
	Type  TrackType `json:"type"`
	Clips []*Clip   `json:"clips"`
}

// Clip is a slice of a recording placed on the timeline.
type Clip struct {
	ID                 string            `json:"id"`
	RecordingID        string            `json:"recordingId"`
	StartTime          float64           `json:"startTime"`
	Duration           float64           `json:"duration"`
	SourceIn           float64           `json:"sourceIn"`
	SourceOut          float64           `json:"sourceOut"`
	PlaybackRate       float64           `json:"playbackRate,omitempty"`
	TimeRemapPeriods   []TimeRemapPeriod `json:"timeRemapPeriods,omitempty"`
	TypingSpeedApplied bool              `json:"typingSpeedApplied,omitempty"`
}

// TimeRemapPeriod is a sub-range of a clip's source interval played at a
// speed different from the clip's base playback rate.
type TimeRemapPeriod struct {
	SourceStartTime float64 `json:"sourceStartTime"`
	SourceEndTime   float64 `json:"sourceEndTime"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
}

// Rate returns the clip playback rate, reading an unset rate as 1.
func (c *Clip) Rate() float64 {
	if c == nil || c.PlaybackRate <= 0 {
		return 1
	}
	return c.PlaybackRate
}

// End returns the timeline position where the clip stops.
func (c *Clip) End() float64 {
	if c == nil {
		return 0
	}
	return c.StartTime + c.Duration
}

// HasRemap reports whether the clip plays any sub-range at a non-base speed.
func (c *Clip) HasRemap() bool {
	return c != nil && len(c.TimeRemapPeriods) > 0
}

// Track returns the track with the given id.
func (p *Project) Track(id string) (*Track, bool) {
	if p == nil {
		return nil, false
	}
	for _, track := range p.Timeline.Tracks {
		if track != nil && track.ID == id {
			return track, true
		}
	}
	return nil, false
}

// TrackOfType returns the first track of the given type.
func (p *Project) TrackOfType(kind TrackType) (*Track, bool) {
	if p == nil {
		return nil, false
	}
	for _, track := range p.Timeline.Tracks {
		if track != nil && track.Type == kind {
			return track, true
		}
	}
	return nil, false
}

// Recording returns the recording with the given id.
func (p *Project) Recording(id string) (*Recording, bool) {
	if p == nil {
		return nil, false
	}
	for _, rec := range p.Recordings {
		if rec != nil && rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// Clips returns every clip across all tracks in track order.
func (p *Project) Clips() []*Clip {
	if p == nil {
		return nil
	}
	var out []*Clip
	for _, track := range p.Timeline.Tracks {
		if track == nil {
			continue
		}
		out = append(out, track.Clips...)
	}
	return out
}

// IndexOf returns the position of the clip with the given id, or -1.
func (t *Track) IndexOf(clipID string) int {
	if t == nil {
		return -1
	}
	for i, clip := range t.Clips {
		if clip != nil && clip.ID == clipID {
			return i
		}
	}
	return -1
}
