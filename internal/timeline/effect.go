package timeline

import (
	"encoding/json"
	"fmt"
	"math"
)

// EffectType enumerates the supported visual effects.
type EffectType string

const (
	EffectBackground EffectType = "background"
	EffectCursor     EffectType = "cursor"
	EffectKeystroke  EffectType = "keystroke"
	EffectZoom       EffectType = "zoom"
	EffectScreen     EffectType = "screen"
	EffectAnnotation EffectType = "annotation"
)

// Singleton reports whether at most one enabled effect of this type may exist
// per project.
func (t EffectType) Singleton() bool {
	switch t {
	case EffectBackground, EffectCursor, EffectKeystroke:
		return true
	default:
		return false
	}
}

// Valid reports whether t names a known effect type.
func (t EffectType) Valid() bool {
	switch t {
	case EffectBackground, EffectCursor, EffectKeystroke, EffectZoom, EffectScreen, EffectAnnotation:
		return true
	default:
		return false
	}
}

// Unbounded is the end time given to project-wide effects.
var Unbounded = math.MaxFloat64

// Effect is a time-bounded visual effect. Zoom and Screen effects are
// positioned in timeline space; legacy recording-scoped effects use source
// space.
type Effect struct {
	ID        string     `json:"id"`
	Type      EffectType `json:"type"`
	StartTime float64    `json:"startTime"`
	EndTime   float64    `json:"endTime"`
	Data      Payload    `json:"data"`
	Enabled   bool       `json:"enabled"`
}

// Contains reports whether t lies inside [StartTime, EndTime).
func (e *Effect) Contains(t float64) bool {
	return e != nil && t >= e.StartTime && t < e.EndTime
}

// Overlaps reports whether the effect intersects [start, end).
func (e *Effect) Overlaps(start, end float64) bool {
	return e != nil && e.StartTime < end && e.EndTime > start
}

// Payload is the open, per-type data object carried by an effect.
type Payload map[string]any

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge deep-merges patch into a copy of p. Nested objects are merged key by
// key so sibling properties survive; every other value replaces the old one.
func (p Payload) Merge(patch Payload) Payload {
	out := p.Clone()
	if out == nil {
		out = Payload{}
	}
	for k, v := range patch {
		incoming, isMap := asMap(v)
		existing, hadMap := asMap(out[k])
		if isMap && hadMap {
			out[k] = map[string]any(Payload(existing).Merge(Payload(incoming)))
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

// Decode unmarshals the payload into a typed view such as ZoomData.
func (p Payload) Decode(v any) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Float returns a numeric field, reporting whether it was present.
func (p Payload) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// PayloadOf converts a typed view into a Payload.
func PayloadOf(v any) (Payload, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var out Payload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Payload(val).Clone())
	case Payload:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case []float64:
		return append([]float64(nil), val...)
	default:
		return val
	}
}

// ZoomData is the typed view of a zoom block payload.
type ZoomData struct {
	Scale      float64 `json:"scale"`
	TargetX    float64 `json:"targetX"`
	TargetY    float64 `json:"targetY"`
	IntroMs    float64 `json:"introMs,omitempty"`
	OutroMs    float64 `json:"outroMs,omitempty"`
	FollowMode string  `json:"followMode,omitempty"`
}

// ScreenData is the typed view of a 3D screen tilt payload.
type ScreenData struct {
	Preset  string  `json:"preset,omitempty"`
	TiltX   float64 `json:"tiltX"`
	TiltY   float64 `json:"tiltY"`
	Depth   float64 `json:"depth,omitempty"`
	IntroMs float64 `json:"introMs,omitempty"`
	OutroMs float64 `json:"outroMs,omitempty"`
}

// BackgroundData is the typed view of the project background payload.
type BackgroundData struct {
	Kind         string  `json:"kind"`
	Color        string  `json:"color,omitempty"`
	Wallpaper    string  `json:"wallpaper,omitempty"`
	Padding      float64 `json:"padding"`
	CornerRadius float64 `json:"cornerRadius"`
	BlurRadius   float64 `json:"blurRadius,omitempty"`
}

// CursorData is the typed view of the cursor overlay payload.
type CursorData struct {
	Visible    bool    `json:"visible"`
	Size       float64 `json:"size"`
	Smoothing  float64 `json:"smoothing"`
	ClickPulse bool    `json:"clickPulse"`
	HideIdleMs float64 `json:"hideIdleMs,omitempty"`
}

// KeystrokeData is the typed view of the keystroke overlay payload.
type KeystrokeData struct {
	Position  string  `json:"position"`
	FontSize  float64 `json:"fontSize"`
	FadeOutMs float64 `json:"fadeOutMs"`
}

// AnnotationData is the typed view of a text or shape annotation.
type AnnotationData struct {
	Kind  string  `json:"kind"`
	Text  string  `json:"text,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

// DefaultBackground returns the payload created for new projects.
func DefaultBackground() Payload {
	return Payload{
		"kind":         "gradient",
		"color":        "#1f2937",
		"padding":      float64(48),
		"cornerRadius": float64(12),
	}
}

// DefaultCursor returns the payload created for new projects.
func DefaultCursor() Payload {
	return Payload{
		"visible":    true,
		"size":       float64(1.0),
		"smoothing":  float64(0.5),
		"clickPulse": true,
	}
}
