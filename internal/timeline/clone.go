package timeline

// Clone returns an independent copy of the clip.
func (c *Clip) Clone() *Clip {
	if c == nil {
		return nil
	}
	cp := *c
	if c.TimeRemapPeriods != nil {
		cp.TimeRemapPeriods = append([]TimeRemapPeriod(nil), c.TimeRemapPeriods...)
	}
	return &cp
}

// Clone returns an independent copy of the effect, including its payload.
func (e *Effect) Clone() *Effect {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Data = e.Data.Clone()
	return &cp
}

// Clone returns an independent copy of the track and its clips.
func (t *Track) Clone() *Track {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Clips = CloneClips(t.Clips)
	return &cp
}

// Clone returns an independent copy of the recording. Metadata event slices
// are copied because callers may hold the clone across edits.
func (r *Recording) Clone() *Recording {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Metadata != nil {
		meta := RecordingMetadata{
			MouseEvents:    append([]MouseEvent(nil), r.Metadata.MouseEvents...),
			KeyboardEvents: make([]KeyboardEvent, len(r.Metadata.KeyboardEvents)),
		}
		for i, ev := range r.Metadata.KeyboardEvents {
			ev.Modifiers = append([]string(nil), ev.Modifiers...)
			meta.KeyboardEvents[i] = ev
		}
		if r.Metadata.KeyboardEvents == nil {
			meta.KeyboardEvents = nil
		}
		cp.Metadata = &meta
	}
	cp.Effects = CloneEffects(r.Effects)
	return &cp
}

// Clone returns a deep copy of the whole project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Recordings != nil {
		cp.Recordings = make([]*Recording, len(p.Recordings))
		for i, rec := range p.Recordings {
			cp.Recordings[i] = rec.Clone()
		}
	}
	if p.Timeline.Tracks != nil {
		cp.Timeline.Tracks = make([]*Track, len(p.Timeline.Tracks))
		for i, track := range p.Timeline.Tracks {
			cp.Timeline.Tracks[i] = track.Clone()
		}
	}
	cp.Timeline.Effects = CloneEffects(p.Timeline.Effects)
	return &cp
}

// CloneClips deep-copies a clip slice.
func CloneClips(clips []*Clip) []*Clip {
	if clips == nil {
		return nil
	}
	out := make([]*Clip, len(clips))
	for i, clip := range clips {
		out[i] = clip.Clone()
	}
	return out
}

// CloneEffects deep-copies an effect slice.
func CloneEffects(effects []*Effect) []*Effect {
	if effects == nil {
		return nil
	}
	out := make([]*Effect, len(effects))
	for i, eff := range effects {
		out[i] = eff.Clone()
	}
	return out
}
