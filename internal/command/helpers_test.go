package command_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"reelcut/internal/command"
	"reelcut/internal/editor"
	"reelcut/internal/testsupport"
	"reelcut/internal/timeline"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

func newSession(t *testing.T) (*editor.Store, *editor.Context, *timeline.Project) {
	t.Helper()
	project := testsupport.NewProject(t)
	n := 0
	store := editor.NewStore(project,
		editor.WithClock(func() time.Time { return fixedNow }),
		editor.WithIDs(func() string {
			n++
			return fmt.Sprintf("id%d", n)
		}),
	)
	return store, store.Env(), project
}

func newManager(t *testing.T, opts ...command.Option) *command.Manager {
	t.Helper()
	m := command.NewManager(opts...)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(m.Stop)
	return m
}

func snapshot(t *testing.T, project *timeline.Project) string {
	t.Helper()
	raw, err := json.Marshal(project)
	if err != nil {
		t.Fatalf("marshal project: %v", err)
	}
	return string(raw)
}

func mustSucceed(t *testing.T, res command.Result) command.Result {
	t.Helper()
	if !res.Success {
		t.Fatalf("expected success, got %v", res.Err)
	}
	return res
}

func track(project *timeline.Project) *timeline.Track {
	return project.Timeline.Tracks[0]
}

func clipIDs(project *timeline.Project) []string {
	var ids []string
	for _, clip := range track(project).Clips {
		ids = append(ids, clip.ID)
	}
	return ids
}

func assertLayout(t *testing.T, project *timeline.Project) {
	t.Helper()
	if err := project.Check(); err != nil {
		t.Fatalf("project invariants: %v", err)
	}
}

// stubOp is a scripted Operation for framework tests.
type stubOp struct {
	name      string
	canErr    error
	execErr   error
	undoErr   error
	panicMsg  string
	started   chan struct{}
	release   chan struct{}
	executed  int
	undone    int
	onExecute func()
	onUndo    func()
}

func (s *stubOp) Metadata() command.Metadata {
	return command.Metadata{Name: s.name}
}

func (s *stubOp) CanExecute(context.Context) error { return s.canErr }

func (s *stubOp) DoExecute(context.Context) (any, error) {
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		<-s.release
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.execErr != nil {
		return nil, s.execErr
	}
	s.executed++
	if s.onExecute != nil {
		s.onExecute()
	}
	return s.name, nil
}

func (s *stubOp) DoUndo(context.Context) error {
	if s.undoErr != nil {
		return s.undoErr
	}
	s.undone++
	if s.onUndo != nil {
		s.onUndo()
	}
	return nil
}
