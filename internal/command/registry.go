package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelcut/internal/clipops"
	"reelcut/internal/effects"
	"reelcut/internal/timeline"
	"reelcut/internal/timespace"
	"reelcut/internal/typing"
)

// Factory builds a command from string arguments.
type Factory func(env Env, args []string) (Command, error)

// Descriptor describes a registered command for listings.
type Descriptor struct {
	Name    string
	Label   string
	Usage   string
	Summary string
}

type registration struct {
	desc    Descriptor
	factory Factory
}

// Registry maps command names to factories.
type Registry struct {
	entries map[string]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a factory under name.
func (r *Registry) Register(name, usage, summary string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("register command: name and factory are required")
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("register command %q: already registered", name)
	}
	r.entries[name] = registration{
		desc: Descriptor{
			Name:    name,
			Label:   cases.Title(language.Und).String(strings.ReplaceAll(name, "-", " ")),
			Usage:   usage,
			Summary: summary,
		},
		factory: factory,
	}
	return nil
}

// Build constructs the command registered under name.
func (r *Registry) Build(name string, env Env, args []string) (Command, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	cmd, err := entry.factory(env, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cmd, nil
}

// Describe returns the descriptor for name.
func (r *Registry) Describe(name string) (Descriptor, bool) {
	entry, ok := r.entries[name]
	return entry.desc, ok
}

// Descriptors lists every registered command sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultRegistry registers every concrete command. Typing commands use
// typingOpts.
func DefaultRegistry(typingOpts typing.Options) *Registry {
	r := NewRegistry()
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(r.Register("add-clip", "<track-id> <recording-id> <source-in> <source-out> [rate]", "Add a clip cut from a recording", func(env Env, args []string) (Command, error) {
		if len(args) < 4 {
			return nil, errUsage("add-clip <track-id> <recording-id> <source-in> <source-out> [rate]")
		}
		nums, err := floats(args[2:])
		if err != nil {
			return nil, err
		}
		clip := &timeline.Clip{RecordingID: args[1], SourceIn: nums[0], SourceOut: nums[1], PlaybackRate: 1}
		if len(nums) > 2 {
			clip.PlaybackRate = nums[2]
		}
		clip.StartTime = env.Project().Timeline.Duration
		if track, ok := env.Project().Track(args[0]); ok && len(track.Clips) > 0 {
			clip.StartTime = track.Clips[len(track.Clips)-1].End()
		}
		return NewAddClip(env, args[0], clip), nil
	}))
	must(r.Register("remove-clip", "[clip-id]", "Remove a clip", func(env Env, args []string) (Command, error) {
		return NewRemoveClip(env, targetClip(env, args)), nil
	}))
	must(r.Register("split-clip", "[clip-id] [time]", "Split a clip at the playhead", func(env Env, args []string) (Command, error) {
		at := env.CurrentTime()
		if len(args) > 1 {
			v, err := parseFloat(args[1])
			if err != nil {
				return nil, err
			}
			at = v
		}
		return NewSplitClip(env, targetClip(env, args), at), nil
	}))
	must(r.Register("trim-start", "<clip-id> <time>", "Move a clip's start boundary", trimFactory(NewTrimStart)))
	must(r.Register("trim-end", "<clip-id> <time>", "Move a clip's end boundary", trimFactory(NewTrimEnd)))
	must(r.Register("duplicate-clip", "[clip-id]", "Duplicate a clip after itself", func(env Env, args []string) (Command, error) {
		return NewDuplicateClip(env, targetClip(env, args)), nil
	}))
	must(r.Register("update-clip", "<clip-id> <field=value>...", "Update clip timing fields", func(env Env, args []string) (Command, error) {
		if len(args) < 2 {
			return nil, errUsage("update-clip <clip-id> <field=value>...")
		}
		update, err := parseClipUpdate(args[1:])
		if err != nil {
			return nil, err
		}
		return NewUpdateClip(env, args[0], update), nil
	}))
	must(r.Register("copy", "", "Copy the selected clip or effect", func(env Env, _ []string) (Command, error) {
		return NewCopy(env), nil
	}))
	must(r.Register("cut", "", "Cut the selected clip", func(env Env, _ []string) (Command, error) {
		return NewCut(env), nil
	}))
	must(r.Register("paste", "", "Paste the clipboard at the playhead", func(env Env, _ []string) (Command, error) {
		return NewPaste(env), nil
	}))
	must(r.Register("add-effect", "<type> <start> <end> [key=value]...", "Add a timeline effect", func(env Env, args []string) (Command, error) {
		if len(args) < 3 {
			return nil, errUsage("add-effect <type> <start> <end> [key=value]...")
		}
		span, err := floats(args[1:3])
		if err != nil {
			return nil, err
		}
		data, err := parsePayload(args[3:])
		if err != nil {
			return nil, err
		}
		return NewAddEffect(env, &timeline.Effect{Type: timeline.EffectType(args[0]), StartTime: span[0], EndTime: span[1], Data: data, Enabled: true}), nil
	}))
	must(r.Register("remove-effect", "<effect-id>", "Remove a timeline effect", func(env Env, args []string) (Command, error) {
		return NewRemoveEffect(env, layerEffect(env, args)), nil
	}))
	must(r.Register("update-effect", "<effect-id> [start=] [end=] [enabled=] [key=value]...", "Update a timeline effect", func(env Env, args []string) (Command, error) {
		if len(args) < 2 {
			return nil, errUsage("update-effect <effect-id> <key=value>...")
		}
		patch, err := parsePatch(args[1:])
		if err != nil {
			return nil, err
		}
		return NewUpdateEffect(env, args[0], patch), nil
	}))
	must(r.Register("add-zoom-block", "<start> <end> [scale]", "Add a zoom block", func(env Env, args []string) (Command, error) {
		if len(args) < 2 {
			return nil, errUsage("add-zoom-block <start> <end> [scale]")
		}
		nums, err := floats(args)
		if err != nil {
			return nil, err
		}
		data := timeline.ZoomData{Scale: 2, TargetX: 0.5, TargetY: 0.5}
		if len(nums) > 2 {
			data.Scale = nums[2]
		}
		return NewAddZoomBlock(env, nums[0], nums[1], data), nil
	}))
	must(r.Register("remove-zoom-block", "<effect-id>", "Remove a zoom block", func(env Env, args []string) (Command, error) {
		return NewRemoveZoomBlock(env, layerEffect(env, args)), nil
	}))
	must(r.Register("update-zoom-block", "<effect-id> [start=] [end=] [key=value]...", "Update a zoom block", func(env Env, args []string) (Command, error) {
		if len(args) < 2 {
			return nil, errUsage("update-zoom-block <effect-id> <key=value>...")
		}
		patch, err := parsePatch(args[1:])
		if err != nil {
			return nil, err
		}
		return NewUpdateZoomBlock(env, args[0], patch), nil
	}))
	must(r.Register("apply-typing-speed", "[clip-id]", "Speed up typing inside a clip", func(env Env, args []string) (Command, error) {
		return NewApplyTypingSpeed(env, targetClip(env, args), typingOpts), nil
	}))
	must(r.Register("apply-typing-speed-all", "", "Speed up typing in every clip", func(env Env, _ []string) (Command, error) {
		return NewApplyTypingSpeedToAllClips(env, typingOpts), nil
	}))
	return r
}

func trimFactory(build func(Env, string, float64) Command) Factory {
	return func(env Env, args []string) (Command, error) {
		if len(args) < 2 {
			return nil, errUsage("<clip-id> <time>")
		}
		at, err := parseFloat(args[1])
		if err != nil {
			return nil, err
		}
		return build(env, args[0], at), nil
	}
}

// targetClip picks the explicit id, else the first selected clip, else the
// clip under the playhead.
func targetClip(env Env, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if selected := env.SelectedClips(); len(selected) > 0 {
		return selected[0]
	}
	for _, track := range env.Project().Timeline.Tracks {
		if clip, _ := timespace.FindClipAt(track.Clips, env.CurrentTime()); clip != nil {
			return clip.ID
		}
	}
	return ""
}

func layerEffect(env Env, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if layer := env.SelectedEffectLayer(); layer != nil {
		return layer.ID
	}
	return ""
}

func errUsage(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "ms"), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		v, err := parseFloat(arg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func splitPair(arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", arg)
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

func parseClipUpdate(args []string) (clipops.Update, error) {
	var u clipops.Update
	for _, arg := range args {
		key, value, err := splitPair(arg)
		if err != nil {
			return u, err
		}
		if key == "typingSpeedApplied" {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return u, fmt.Errorf("parse %s: %w", key, err)
			}
			u.TypingSpeedApplied = &b
			continue
		}
		v, err := parseFloat(value)
		if err != nil {
			return u, err
		}
		switch key {
		case "startTime":
			u.StartTime = &v
		case "duration":
			u.Duration = &v
		case "sourceIn":
			u.SourceIn = &v
		case "sourceOut":
			u.SourceOut = &v
		case "playbackRate":
			u.PlaybackRate = &v
		default:
			return u, fmt.Errorf("unknown clip field %q", key)
		}
	}
	return u, nil
}

func parsePatch(args []string) (effects.Patch, error) {
	var patch effects.Patch
	data := timeline.Payload{}
	for _, arg := range args {
		key, value, err := splitPair(arg)
		if err != nil {
			return patch, err
		}
		switch key {
		case "start", "startTime":
			v, err := parseFloat(value)
			if err != nil {
				return patch, err
			}
			patch.StartTime = &v
		case "end", "endTime":
			v, err := parseFloat(value)
			if err != nil {
				return patch, err
			}
			patch.EndTime = &v
		case "enabled":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return patch, fmt.Errorf("parse enabled: %w", err)
			}
			patch.Enabled = &b
		default:
			data[key] = scalar(value)
		}
	}
	if len(data) > 0 {
		patch.Data = data
	}
	return patch, nil
}

func parsePayload(args []string) (timeline.Payload, error) {
	data := timeline.Payload{}
	for _, arg := range args {
		key, value, err := splitPair(arg)
		if err != nil {
			return nil, err
		}
		data[key] = scalar(value)
	}
	return data, nil
}

// scalar reads numbers and booleans as such and keeps everything else as a
// string.
func scalar(value string) any {
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return v
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
