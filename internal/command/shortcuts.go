package command

import (
	"sort"
	"strings"
)

// Manager actions bound to chords alongside registered commands.
const (
	ShortcutUndo = "undo"
	ShortcutRedo = "redo"
)

// Binding is one chord bound to a command name.
type Binding struct {
	Chord string
	Name  string
}

// Shortcuts maps key chords such as "cmd+shift+z" to command names.
type Shortcuts struct {
	bindings map[string]string
}

// NewShortcuts returns an empty table.
func NewShortcuts() *Shortcuts {
	return &Shortcuts{bindings: make(map[string]string)}
}

// DefaultShortcuts returns the editor's standard key bindings.
func DefaultShortcuts() *Shortcuts {
	s := NewShortcuts()
	s.Bind("cmd+c", "copy")
	s.Bind("cmd+x", "cut")
	s.Bind("cmd+v", "paste")
	s.Bind("s", "split-clip")
	s.Bind("cmd+d", "duplicate-clip")
	s.Bind("delete", "remove-clip")
	s.Bind("backspace", "remove-clip")
	s.Bind("cmd+z", ShortcutUndo)
	s.Bind("cmd+shift+z", ShortcutRedo)
	return s
}

// Bind maps chord to name, replacing any previous binding.
func (s *Shortcuts) Bind(chord, name string) {
	s.bindings[NormalizeChord(chord)] = name
}

// Lookup returns the command bound to chord.
func (s *Shortcuts) Lookup(chord string) (string, bool) {
	name, ok := s.bindings[NormalizeChord(chord)]
	return name, ok
}

// Bindings lists every binding sorted by chord.
func (s *Shortcuts) Bindings() []Binding {
	out := make([]Binding, 0, len(s.bindings))
	for chord, name := range s.bindings {
		out = append(out, Binding{Chord: chord, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chord < out[j].Chord })
	return out
}

var modifierOrder = map[string]int{"cmd": 0, "ctrl": 1, "alt": 2, "shift": 3}

var modifierAliases = map[string]string{
	"command": "cmd",
	"meta":    "cmd",
	"control": "ctrl",
	"option":  "alt",
}

// NormalizeChord lowercases a chord and orders its modifiers as cmd, ctrl,
// alt, shift before the key, so "Shift+Cmd+Z" and "cmd+shift+z" match.
func NormalizeChord(chord string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(chord)), "+")
	var mods []string
	key := ""
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if alias, ok := modifierAliases[part]; ok {
			part = alias
		}
		if _, ok := modifierOrder[part]; ok {
			mods = append(mods, part)
			continue
		}
		if part != "" {
			key = part
		}
	}
	sort.Slice(mods, func(i, j int) bool { return modifierOrder[mods[i]] < modifierOrder[mods[j]] })
	if key != "" {
		mods = append(mods, key)
	}
	return strings.Join(mods, "+")
}
