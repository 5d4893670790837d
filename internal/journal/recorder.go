package journal

import (
	"context"

	"reelcut/internal/command"
)

// Recorder adapts a Journal to command.Recorder for one project session.
type Recorder struct {
	journal   *Journal
	project   string
	sessionID string
}

// NewRecorder returns a recorder that tags entries with project and sessionID.
func NewRecorder(j *Journal, project, sessionID string) *Recorder {
	return &Recorder{journal: j, project: project, sessionID: sessionID}
}

var _ command.Recorder = (*Recorder)(nil)

// Record journals one manager event.
func (r *Recorder) Record(ctx context.Context, event command.Event) error {
	entry := Entry{
		Project:     r.project,
		SessionID:   r.sessionID,
		Action:      string(event.Action),
		Name:        event.Name,
		Description: event.Description,
		GroupID:     event.GroupID,
		Success:     event.Success,
		Duration:    event.Duration,
		RecordedAt:  event.At,
	}
	if event.Err != nil {
		entry.Error = event.Err.Error()
	}
	return r.journal.Record(ctx, entry)
}
