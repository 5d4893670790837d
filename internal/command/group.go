package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reelcut/internal/logging"
)

// BeginGroup opens a named group. Every command executed until EndGroup is
// tagged with the group's id and undoes and redoes together with the others.
func (m *Manager) BeginGroup(ctx context.Context, name string) (string, error) {
	res := m.submit(ctx, func(context.Context) Result {
		if m.group != nil {
			return Fail(fmt.Errorf("%w: %s", ErrGroupOpen, m.group.name))
		}
		m.group = &group{id: uuid.NewString(), name: name}
		m.logger.Debug("command group opened",
			logging.String("group", name),
			logging.String("group_id", m.group.id),
		)
		return OK(m.group.id)
	})
	if !res.Success {
		return "", res.Err
	}
	id, _ := res.Data.(string)
	return id, nil
}

// EndGroup closes the open group and returns a composite describing the
// commands it collected. The composite is for display; the grouped commands
// have already run.
func (m *Manager) EndGroup(ctx context.Context) (Command, error) {
	res := m.submit(ctx, func(context.Context) Result {
		if m.group == nil {
			return Fail(ErrNoGroup)
		}
		g := m.group
		m.group = nil
		m.logger.Debug("command group closed",
			logging.String("group", g.name),
			logging.String("group_id", g.id),
			logging.Int("commands", len(g.commands)),
		)
		return OK(NewComposite(Metadata{
			Name:        g.name,
			Category:    "group",
			Description: fmt.Sprintf("%s (%d commands)", g.name, len(g.commands)),
		}, g.commands...))
	})
	if !res.Success {
		return nil, res.Err
	}
	cmd, _ := res.Data.(Command)
	return cmd, nil
}
