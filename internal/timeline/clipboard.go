package timeline

// Clipboard holds at most one copied clip and one copied effect.
type Clipboard struct {
	Clip   *Clip
	Effect *CopiedEffect
}

// CopiedEffect is an effect payload lifted from a clip for pasting.
type CopiedEffect struct {
	Type         EffectType
	Data         Payload
	SourceClipID string
	// Length is the copied effect's span, reused when pasting bounded effects.
	Length float64
}

// Empty reports whether nothing has been copied.
func (c Clipboard) Empty() bool {
	return c.Clip == nil && c.Effect == nil
}

// Clone returns a deep copy of the clipboard.
func (c Clipboard) Clone() Clipboard {
	out := Clipboard{Clip: c.Clip.Clone()}
	if c.Effect != nil {
		eff := *c.Effect
		eff.Data = c.Effect.Data.Clone()
		out.Effect = &eff
	}
	return out
}

// EffectLayer identifies the effect the user has selected in the UI.
type EffectLayer struct {
	Type EffectType
	ID   string
}
