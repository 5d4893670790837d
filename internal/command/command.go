package command

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// Command is a reversible unit of mutation.
type Command interface {
	CanExecute(ctx context.Context) error
	Execute(ctx context.Context) Result
	Undo(ctx context.Context) Result
	Redo(ctx context.Context) Result
	Executed() bool
	Metadata() Metadata
}

// Operation is the behaviour a concrete command supplies. CanExecute must not
// mutate anything; DoExecute captures whatever DoUndo needs before mutating.
type Operation interface {
	Metadata() Metadata
	CanExecute(ctx context.Context) error
	DoExecute(ctx context.Context) (any, error)
	DoUndo(ctx context.Context) error
}

// Redoer is implemented by operations whose redo differs from replaying
// DoExecute, typically to restore the exact ids the first run produced.
type Redoer interface {
	DoRedo(ctx context.Context) (any, error)
}

type tracked struct {
	op       Operation
	meta     Metadata
	executed bool
	result   Result
}

// New wraps op in the command state machine: Constructed, then Executed,
// then alternating Undone and Executed through undo and redo.
func New(op Operation) Command {
	meta := op.Metadata()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}
	return &tracked{op: op, meta: meta}
}

func (c *tracked) Metadata() Metadata { return c.meta }

func (c *tracked) Executed() bool { return c.executed }

func (c *tracked) CanExecute(ctx context.Context) error {
	return c.op.CanExecute(ctx)
}

func (c *tracked) Execute(ctx context.Context) Result {
	if c.executed {
		return Fail(fmt.Errorf("%s: %w", c.meta.Name, ErrAlreadyExecuted))
	}
	if err := c.op.CanExecute(ctx); err != nil {
		return Fail(classify(err))
	}
	data, err := guard(ctx, c.meta.Name, c.op.DoExecute)
	if err != nil {
		return Fail(err)
	}
	c.executed = true
	c.result = OK(data)
	return c.result
}

func (c *tracked) Undo(ctx context.Context) Result {
	if !c.executed {
		return Fail(fmt.Errorf("%s: %w", c.meta.Name, ErrNotExecuted))
	}
	_, err := guard(ctx, c.meta.Name, func(ctx context.Context) (any, error) {
		return nil, c.op.DoUndo(ctx)
	})
	if err != nil {
		return Fail(err)
	}
	c.executed = false
	return OK(c.result.Data)
}

func (c *tracked) Redo(ctx context.Context) Result {
	if c.executed {
		return Fail(fmt.Errorf("%s: %w", c.meta.Name, ErrAlreadyExecuted))
	}
	redo := c.op.DoExecute
	if r, ok := c.op.(Redoer); ok {
		redo = r.DoRedo
	}
	data, err := guard(ctx, c.meta.Name, redo)
	if err != nil {
		return Fail(err)
	}
	c.executed = true
	c.result = OK(data)
	return c.result
}

// guard runs fn and converts a panic into an error so no mutation escapes
// the command boundary.
func guard(ctx context.Context, name string, fn func(context.Context) (any, error)) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v\n%s", name, r, debug.Stack())
		}
	}()
	return fn(ctx)
}

// classify keeps not-found errors distinct and marks every other
// precondition failure with ErrPrecondition.
func classify(err error) error {
	if errors.Is(err, ErrPrecondition) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPrecondition, err)
}

func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
