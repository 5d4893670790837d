package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"reelcut/internal/logging"
)

// DefaultMaxHistory caps the undo history when no limit is configured.
const DefaultMaxHistory = 100

// Action names a manager operation in events.
type Action string

const (
	ActionExecute Action = "execute"
	ActionUndo    Action = "undo"
	ActionRedo    Action = "redo"
)

// Event describes one finished execute, undo, or redo.
type Event struct {
	Action      Action
	Name        string
	Description string
	GroupID     string
	Success     bool
	Err         error
	Duration    time.Duration
	At          time.Time
}

// Recorder persists events, for example to an audit journal.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// Observer is notified of every event, for example to update metrics.
type Observer interface {
	Observe(event Event)
}

// HistoryEntry is one executed command in the undo history.
type HistoryEntry struct {
	Command   Command
	Metadata  Metadata
	Result    Result
	Timestamp time.Time
	Undone    bool
	GroupID   string
}

type group struct {
	id       string
	name     string
	commands []Command
}

type task struct {
	ctx   context.Context
	run   func(context.Context) Result
	reply chan Result
}

// Manager serialises command execution and owns the undo/redo history.
type Manager struct {
	logger     *slog.Logger
	maxHistory int
	recorder   Recorder
	observer   Observer
	now        func() time.Time

	executing atomic.Bool

	mu      sync.RWMutex
	running bool
	tasks   chan task
	done    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// Owned by the worker goroutine.
	history []*HistoryEntry
	group   *group
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMaxHistory bounds the history; values below one use DefaultMaxHistory.
func WithMaxHistory(n int) Option {
	return func(m *Manager) { m.maxHistory = n }
}

// WithRecorder journals every event.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithObserver reports every event to o.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager constructs a stopped manager. Call Start before use.
func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxHistory < 1 {
		m.maxHistory = DefaultMaxHistory
	}
	m.logger = logging.NewComponentLogger(m.logger, "commands")
	return m
}

// Start launches the worker goroutine.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("command manager already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.tasks = make(chan task)
	m.done = make(chan struct{})
	m.running = true
	m.wg.Add(1)
	go m.run(runCtx, m.tasks, m.done)
	return nil
}

// Stop terminates the worker and waits for it to exit. A command in flight
// finishes first.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context, tasks <-chan task, done chan struct{}) {
	defer m.wg.Done()
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-tasks:
			t.reply <- t.run(t.ctx)
		}
	}
}

func (m *Manager) submit(ctx context.Context, fn func(context.Context) Result) Result {
	m.mu.RLock()
	running, tasks, done := m.running, m.tasks, m.done
	m.mu.RUnlock()
	if !running {
		return Fail(ErrStopped)
	}
	t := task{ctx: ctx, run: fn, reply: make(chan Result, 1)}
	select {
	case tasks <- t:
	case <-done:
		return Fail(ErrStopped)
	case <-ctx.Done():
		return Fail(ctx.Err())
	}
	select {
	case res := <-t.reply:
		return res
	case <-done:
		return Fail(ErrStopped)
	case <-ctx.Done():
		return Fail(ctx.Err())
	}
}

// Execute runs cmd on the worker and records it in the history. It fails
// with ErrBusy while another Execute is in flight. Executing after an undo
// discards every undone entry.
func (m *Manager) Execute(ctx context.Context, cmd Command) Result {
	if cmd == nil {
		return Fail(errors.New("nil command"))
	}
	if !m.executing.CompareAndSwap(false, true) {
		m.logger.Warn("command rejected while another executes",
			logging.String("command", cmd.Metadata().Name),
			logging.String(logging.FieldEventType, "command_busy"),
			logging.String(logging.FieldErrorHint, "retry after the current command finishes"),
		)
		return Fail(ErrBusy)
	}
	defer m.executing.Store(false)
	return m.submit(ctx, func(ctx context.Context) Result {
		return m.execute(ctx, cmd)
	})
}

// Undo reverts the most recent executed entry, or its whole group.
func (m *Manager) Undo(ctx context.Context) Result {
	return m.submit(ctx, m.undo)
}

// Redo re-applies the oldest undone entry, or its whole group.
func (m *Manager) Redo(ctx context.Context) Result {
	return m.submit(ctx, m.redo)
}

// CanUndo reports whether Undo has an entry to revert.
func (m *Manager) CanUndo(ctx context.Context) bool {
	res := m.submit(ctx, func(context.Context) Result {
		return OK(m.lastDone() >= 0)
	})
	ok, _ := res.Data.(bool)
	return res.Success && ok
}

// CanRedo reports whether Redo has an entry to re-apply.
func (m *Manager) CanRedo(ctx context.Context) bool {
	res := m.submit(ctx, func(context.Context) Result {
		return OK(m.firstUndone() >= 0)
	})
	ok, _ := res.Data.(bool)
	return res.Success && ok
}

// History returns a copy of the history, oldest first.
func (m *Manager) History(ctx context.Context) []HistoryEntry {
	res := m.submit(ctx, func(context.Context) Result {
		out := make([]HistoryEntry, len(m.history))
		for i, entry := range m.history {
			out[i] = *entry
		}
		return OK(out)
	})
	entries, _ := res.Data.([]HistoryEntry)
	return entries
}

// Clear drops the whole history and any open group.
func (m *Manager) Clear(ctx context.Context) Result {
	return m.submit(ctx, func(context.Context) Result {
		m.history = nil
		m.group = nil
		return OK(nil)
	})
}

func (m *Manager) execute(ctx context.Context, cmd Command) Result {
	started := m.now()
	meta := cmd.Metadata()
	res := cmd.Execute(ctx)

	groupID := ""
	if res.Success {
		m.history = m.history[:m.liveCount()]
		entry := &HistoryEntry{Command: cmd, Metadata: meta, Result: res, Timestamp: started}
		if m.group != nil {
			entry.GroupID = m.group.id
			m.group.commands = append(m.group.commands, cmd)
			groupID = m.group.id
		}
		m.history = append(m.history, entry)
		if over := len(m.history) - m.maxHistory; over > 0 {
			m.history = append([]*HistoryEntry(nil), m.history[over:]...)
		}
	}
	m.emit(ctx, Event{Action: ActionExecute, Name: meta.Name, Description: meta.Description, GroupID: groupID, Success: res.Success, Err: res.Err, Duration: m.now().Sub(started), At: started})
	return res
}

// liveCount drops undone entries. They always form the history's tail
// because undo walks backwards and redo forwards.
func (m *Manager) liveCount() int {
	n := 0
	for _, entry := range m.history {
		if !entry.Undone {
			m.history[n] = entry
			n++
		}
	}
	return n
}

func (m *Manager) lastDone() int {
	for i := len(m.history) - 1; i >= 0; i-- {
		if !m.history[i].Undone {
			return i
		}
	}
	return -1
}

func (m *Manager) firstUndone() int {
	for i, entry := range m.history {
		if entry.Undone {
			return i
		}
	}
	return -1
}

func (m *Manager) undo(ctx context.Context) Result {
	idx := m.lastDone()
	if idx < 0 {
		return Fail(ErrNothingToUndo)
	}
	targets := []*HistoryEntry{m.history[idx]}
	if gid := m.history[idx].GroupID; gid != "" {
		targets = targets[:0]
		for i := len(m.history) - 1; i >= 0; i-- {
			if entry := m.history[i]; entry.GroupID == gid && !entry.Undone {
				targets = append(targets, entry)
			}
		}
	}
	return m.apply(ctx, ActionUndo, targets, func(entry *HistoryEntry) Result {
		res := entry.Command.Undo(ctx)
		if res.Success {
			entry.Undone = true
		}
		return res
	})
}

func (m *Manager) redo(ctx context.Context) Result {
	idx := m.firstUndone()
	if idx < 0 {
		return Fail(ErrNothingToRedo)
	}
	targets := []*HistoryEntry{m.history[idx]}
	if gid := m.history[idx].GroupID; gid != "" {
		targets = targets[:0]
		for _, entry := range m.history {
			if entry.GroupID == gid && entry.Undone {
				targets = append(targets, entry)
			}
		}
	}
	return m.apply(ctx, ActionRedo, targets, func(entry *HistoryEntry) Result {
		res := entry.Command.Redo(ctx)
		if res.Success {
			entry.Undone = false
		}
		return res
	})
}

// apply runs step over the targets in order and stops at the first failure.
func (m *Manager) apply(ctx context.Context, action Action, targets []*HistoryEntry, step func(*HistoryEntry) Result) Result {
	started := m.now()
	var last Result
	for i, entry := range targets {
		last = step(entry)
		if !last.Success {
			err := last.Err
			if len(targets) > 1 {
				err = fmt.Errorf("%s %d of %d in group (%s): %w", action, i+1, len(targets), entry.Metadata.Name, err)
			}
			attrs := []logging.Attr{
				logging.String("command", entry.Metadata.Name),
				logging.Error(err),
			}
			if i > 0 {
				attrs = append(attrs,
					logging.Alert("group_partially_applied"),
					logging.Int("applied", i),
					logging.Int("remaining", len(targets)-i),
					logging.String(logging.FieldErrorHint, "project is partially "+pastTense(action)+"; inspect history before editing"),
				)
			}
			logging.ErrorWithContext(ctx, m.logger, "command "+string(action)+" failed", "command_"+string(action)+"_failed", attrs...)
			m.emit(ctx, Event{Action: action, Name: entry.Metadata.Name, Description: entry.Metadata.Description, GroupID: entry.GroupID, Err: err, Duration: m.now().Sub(started), At: started})
			return Fail(err)
		}
	}
	head := targets[0]
	m.emit(ctx, Event{Action: action, Name: head.Metadata.Name, Description: head.Metadata.Description, GroupID: head.GroupID, Success: true, Duration: m.now().Sub(started), At: started})
	return last
}

func pastTense(action Action) string {
	if action == ActionUndo {
		return "reverted"
	}
	return "reapplied"
}

func (m *Manager) emit(ctx context.Context, event Event) {
	if event.Success {
		m.logger.Debug("command "+string(event.Action),
			logging.String("command", event.Name),
			logging.String("group_id", event.GroupID),
			logging.Duration("duration", event.Duration),
		)
	} else if event.Action == ActionExecute {
		m.logger.Info("command not executed",
			logging.String("command", event.Name),
			logging.Error(event.Err),
			logging.String(logging.FieldEventType, "command_rejected"),
		)
	}
	if m.observer != nil {
		m.observer.Observe(event)
	}
	if m.recorder != nil {
		if err := m.recorder.Record(ctx, event); err != nil {
			m.logger.Warn("command journal write failed",
				logging.String("command", event.Name),
				logging.Error(err),
				logging.String(logging.FieldEventType, "journal_write_failed"),
				logging.String(logging.FieldErrorHint, "check journal database access"),
			)
		}
	}
}
