package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"reelcut/internal/blob"
	"reelcut/internal/command"
	"reelcut/internal/editor"
	"reelcut/internal/journal"
	"reelcut/internal/logging"
	"reelcut/internal/timeline"
)

// ErrScript marks a script line that could not be interpreted.
var ErrScript = errors.New("invalid script line")

// Session is one open project with its command manager running.
type Session struct {
	ID        string
	Name      string
	Store     *editor.Store
	Manager   *command.Manager
	Registry  *command.Registry
	Shortcuts *command.Shortcuts

	env    *Environment
	logger *slog.Logger
}

// Option customizes Open.
type Option func(*openOptions)

type openOptions struct {
	editorOpts  []editor.Option
	managerOpts []command.Option
}

// WithEditorOptions passes options through to editor.NewStore.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(o *openOptions) { o.editorOpts = append(o.editorOpts, opts...) }
}

// WithManagerOptions passes options through to command.NewManager.
func WithManagerOptions(opts ...command.Option) Option {
	return func(o *openOptions) { o.managerOpts = append(o.managerOpts, opts...) }
}

// Open loads the named project and starts a command manager over it.
func Open(ctx context.Context, env *Environment, name string, opts ...Option) (*Session, error) {
	project, err := env.Files.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return Start(ctx, env, name, project, opts...)
}

// Start begins a session over an already loaded project.
func Start(ctx context.Context, env *Environment, name string, project *timeline.Project, opts ...Option) (*Session, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	logger := env.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithContext(logging.WithSession(logging.WithProject(ctx, name), id), logger)

	store := editor.NewStore(project, append([]editor.Option{editor.WithLogger(logger)}, o.editorOpts...)...)

	managerOpts := []command.Option{command.WithLogger(logger)}
	if env.Config != nil {
		managerOpts = append(managerOpts, command.WithMaxHistory(env.Config.Editor.MaxHistory))
	}
	if env.Journal != nil {
		managerOpts = append(managerOpts, command.WithRecorder(journal.NewRecorder(env.Journal, name, id)))
	}
	if env.Metrics != nil {
		managerOpts = append(managerOpts, command.WithObserver(env.Metrics))
	}
	manager := command.NewManager(append(managerOpts, o.managerOpts...)...)
	if err := manager.Start(ctx); err != nil {
		return nil, fmt.Errorf("start command manager: %w", err)
	}

	return &Session{
		ID:        id,
		Name:      name,
		Store:     store,
		Manager:   manager,
		Registry:  command.DefaultRegistry(env.TypingOptions()),
		Shortcuts: command.DefaultShortcuts(),
		env:       env,
		logger:    logging.NewComponentLogger(logger, "session"),
	}, nil
}

// Save writes the project back to storage.
func (s *Session) Save(ctx context.Context) (blob.Info, error) {
	var (
		info blob.Info
		err  error
	)
	s.Store.View(func(project *timeline.Project) {
		info, err = s.env.Files.Save(ctx, s.Name, project)
	})
	return info, err
}

// Close stops the manager.
func (s *Session) Close() {
	s.Manager.Stop()
}

// Step is the outcome of one script line.
type Step struct {
	Line   int
	Input  string
	Name   string
	Result command.Result
}

// OK reports whether the step succeeded.
func (s Step) OK() bool { return s.Result.Success }

// Run interprets one script line. Recognised forms:
//
//	playhead <ms>
//	select <clip-id>...        (no ids clears the selection)
//	select-effect <effect-id>  ("none" clears it)
//	group begin <name>
//	group end
//	undo | redo
//	key <chord>
//	<command> [args...]
func (s *Session) Run(ctx context.Context, input string) Step {
	step := Step{Input: strings.TrimSpace(input)}
	fields := strings.Fields(step.Input)
	if len(fields) == 0 {
		step.Result = command.OK(nil)
		return step
	}
	step.Name = fields[0]
	step.Result = s.dispatch(ctx, fields[0], fields[1:])
	return step
}

func (s *Session) dispatch(ctx context.Context, name string, args []string) command.Result {
	switch name {
	case "playhead":
		if len(args) != 1 {
			return command.Fail(fmt.Errorf("%w: usage: playhead <ms>", ErrScript))
		}
		t, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return command.Fail(fmt.Errorf("%w: playhead %q: %v", ErrScript, args[0], err))
		}
		s.Store.SetPlayhead(t)
		return command.OK(t)
	case "select":
		s.Store.SelectClip("", false)
		for i, id := range args {
			s.Store.SelectClip(id, i > 0)
		}
		return command.OK(args)
	case "select-effect":
		return s.selectEffect(args)
	case "group":
		return s.group(ctx, args)
	case command.ShortcutUndo:
		return s.Manager.Undo(ctx)
	case command.ShortcutRedo:
		return s.Manager.Redo(ctx)
	case "key":
		if len(args) != 1 {
			return command.Fail(fmt.Errorf("%w: usage: key <chord>", ErrScript))
		}
		bound, ok := s.Shortcuts.Lookup(args[0])
		if !ok {
			return command.Fail(fmt.Errorf("%w: no binding for %s", ErrScript, command.NormalizeChord(args[0])))
		}
		return s.dispatch(ctx, bound, nil)
	}

	cmd, err := s.Registry.Build(name, s.Store.Env(), args)
	if err != nil {
		return command.Fail(err)
	}
	return s.Manager.Execute(ctx, cmd)
}

func (s *Session) selectEffect(args []string) command.Result {
	if len(args) != 1 {
		return command.Fail(fmt.Errorf("%w: usage: select-effect <effect-id>|none", ErrScript))
	}
	if args[0] == "none" {
		s.Store.SelectEffectLayer(nil)
		return command.OK(nil)
	}
	var layer *timeline.EffectLayer
	s.Store.View(func(project *timeline.Project) {
		for _, eff := range project.Timeline.Effects {
			if eff.ID == args[0] {
				layer = &timeline.EffectLayer{Type: eff.Type, ID: eff.ID}
				return
			}
		}
	})
	if layer == nil {
		return command.Fail(fmt.Errorf("%w: effect %s", command.ErrNotFound, args[0]))
	}
	s.Store.SelectEffectLayer(layer)
	return command.OK(layer)
}

func (s *Session) group(ctx context.Context, args []string) command.Result {
	if len(args) == 0 {
		return command.Fail(fmt.Errorf("%w: usage: group begin <name> | group end", ErrScript))
	}
	switch args[0] {
	case "begin":
		name := strings.Join(args[1:], " ")
		if name == "" {
			name = "group"
		}
		id, err := s.Manager.BeginGroup(ctx, name)
		if err != nil {
			return command.Fail(err)
		}
		return command.OK(id)
	case "end":
		cmd, err := s.Manager.EndGroup(ctx)
		if err != nil {
			return command.Fail(err)
		}
		return command.OK(cmd.Metadata().Description)
	default:
		return command.Fail(fmt.Errorf("%w: unknown group action %q", ErrScript, args[0]))
	}
}

// RunScript runs every line of r, skipping blank lines and # comments. fn
// sees each step; returning false stops the script.
func (s *Session) RunScript(ctx context.Context, r io.Reader, fn func(Step) bool) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		step := s.Run(ctx, text)
		step.Line = line
		if !step.OK() {
			s.logger.Info("script step failed",
				logging.Int("line", line),
				logging.String(logging.FieldCommand, step.Name),
				logging.Error(step.Result.Err),
				logging.String(logging.FieldEventType, "script_step_failed"),
			)
		}
		if fn != nil && !fn(step) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}
