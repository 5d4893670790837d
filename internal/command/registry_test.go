package command_test

import (
	"context"
	"errors"
	"testing"

	"reelcut/internal/command"
	"reelcut/internal/effects"
	"reelcut/internal/typing"
)

func TestDefaultRegistryBuildsCommands(t *testing.T) {
	ctx := context.Background()
	store, env, project := newSession(t)
	registry := command.DefaultRegistry(typing.DefaultOptions())

	desc, ok := registry.Describe("split-clip")
	if !ok || desc.Label != "Split Clip" {
		t.Fatalf("descriptor = %+v", desc)
	}
	if n := len(registry.Descriptors()); n != 18 {
		t.Fatalf("registered commands = %d", n)
	}

	store.SetPlayhead(5000)
	split, err := registry.Build("split-clip", env, nil)
	if err != nil {
		t.Fatalf("Build split-clip: %v", err)
	}
	res := mustSucceed(t, split.Execute(ctx))
	if res.Data.(command.SplitResult).FirstID == "" {
		t.Fatal("split through the registry should split the clip under the playhead")
	}
	if len(track(project).Clips) != 4 {
		t.Fatal("expected four clips")
	}

	update, err := registry.Build("update-effect", env, []string{"zoom-1", "end=9500ms", "scale=4", "enabled=false"})
	if err != nil {
		t.Fatalf("Build update-effect: %v", err)
	}
	mustSucceed(t, update.Execute(ctx))
	loc, _ := effects.Find(project, "zoom-1")
	if loc.Effect.EndTime != 9500 || loc.Effect.Enabled || loc.Effect.Data["scale"] != 4.0 {
		t.Fatalf("effect after update = %+v", loc.Effect)
	}

	if _, err := registry.Build("explode", env, nil); !errors.Is(err, command.ErrUnknownCommand) {
		t.Fatalf("unknown command: %v", err)
	}
	if _, err := registry.Build("trim-end", env, []string{"clip-a"}); err == nil {
		t.Fatal("trim-end without a time should fail")
	}
	if _, err := registry.Build("update-clip", env, []string{"clip-a", "colour=red"}); err == nil {
		t.Fatal("unknown clip field should fail")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := command.NewRegistry()
	factory := func(command.Env, []string) (command.Command, error) { return nil, nil }
	if err := registry.Register("noop", "", "", factory); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register("noop", "", "", factory); err == nil {
		t.Fatal("duplicate registration should fail")
	}
}

func TestShortcuts(t *testing.T) {
	shortcuts := command.DefaultShortcuts()
	cases := map[string]string{
		"Cmd+C":       "copy",
		"shift+cmd+z": command.ShortcutRedo,
		"Meta+Z":      command.ShortcutUndo,
		"S":           "split-clip",
		"Backspace":   "remove-clip",
	}
	for chord, want := range cases {
		got, ok := shortcuts.Lookup(chord)
		if !ok || got != want {
			t.Errorf("Lookup(%q) = %q, %v; want %q", chord, got, ok, want)
		}
	}
	if _, ok := shortcuts.Lookup("cmd+q"); ok {
		t.Error("cmd+q should be unbound")
	}
	if got := command.NormalizeChord("Shift + Option + Control + K"); got != "ctrl+alt+shift+k" {
		t.Errorf("NormalizeChord = %q", got)
	}
}
