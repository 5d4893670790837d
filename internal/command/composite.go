package command

import (
	"context"
	"errors"
	"fmt"
)

// Composite runs an ordered list of commands as one all-or-nothing unit.
type Composite struct {
	meta  Metadata
	steps []Command
}

// NewComposite returns the composite operation wrapped as a Command.
func NewComposite(meta Metadata, steps ...Command) Command {
	if meta.Category == "" {
		meta.Category = "composite"
	}
	return New(&Composite{meta: meta, steps: steps})
}

// Steps returns the composite's commands in execution order.
func (c *Composite) Steps() []Command {
	return append([]Command(nil), c.steps...)
}

func (c *Composite) Metadata() Metadata { return c.meta }

// CanExecute is the conjunction of every step's precondition.
func (c *Composite) CanExecute(ctx context.Context) error {
	if len(c.steps) == 0 {
		return preconditionf("%s has no steps", c.meta.Name)
	}
	for i, step := range c.steps {
		if err := step.CanExecute(ctx); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Metadata().Name, err)
		}
	}
	return nil
}

// DoExecute runs the steps in order. On the first failure every step that
// already succeeded is undone in reverse order before the failure is
// reported.
func (c *Composite) DoExecute(ctx context.Context) (any, error) {
	results := make([]any, 0, len(c.steps))
	for i, step := range c.steps {
		res := step.Execute(ctx)
		if !res.Success {
			failure := fmt.Errorf("step %d (%s) failed: %w", i, step.Metadata().Name, res.Err)
			if err := c.compensate(ctx, i); err != nil {
				return nil, errors.Join(failure, err)
			}
			return nil, failure
		}
		results = append(results, res.Data)
	}
	return results, nil
}

// DoUndo undoes the steps in strict reverse order and stops at the first
// failure; the project is then partially reverted and the error says where.
func (c *Composite) DoUndo(ctx context.Context) error {
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if !step.Executed() {
			continue
		}
		if res := step.Undo(ctx); !res.Success {
			return fmt.Errorf("undo step %d (%s) failed: %w", i, step.Metadata().Name, res.Err)
		}
	}
	return nil
}

// DoRedo redoes the steps in order, compensating like DoExecute.
func (c *Composite) DoRedo(ctx context.Context) (any, error) {
	results := make([]any, 0, len(c.steps))
	for i, step := range c.steps {
		res := step.Redo(ctx)
		if !res.Success {
			failure := fmt.Errorf("redo step %d (%s) failed: %w", i, step.Metadata().Name, res.Err)
			if err := c.compensate(ctx, i); err != nil {
				return nil, errors.Join(failure, err)
			}
			return nil, failure
		}
		results = append(results, res.Data)
	}
	return results, nil
}

func (c *Composite) compensate(ctx context.Context, failed int) error {
	var errs []error
	for j := failed - 1; j >= 0; j-- {
		step := c.steps[j]
		if res := step.Undo(ctx); !res.Success {
			errs = append(errs, fmt.Errorf("compensate step %d (%s): %w", j, step.Metadata().Name, res.Err))
		}
	}
	return errors.Join(errs...)
}
