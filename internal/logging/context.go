package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a record for filtering, e.g. "command_busy".
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldProject is the key of the project document being edited.
	FieldProject = "project"
	// FieldCommand is the command name.
	FieldCommand = "command"
	// FieldGroupID is the undo group a command belongs to.
	FieldGroupID = "group_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

type contextKey int

const (
	projectKey contextKey = iota
	sessionKey
)

// WithProject returns ctx tagged with the project key.
func WithProject(ctx context.Context, project string) context.Context {
	return context.WithValue(ctx, projectKey, project)
}

// WithSession returns ctx tagged with an edit session id.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if project, ok := ctx.Value(projectKey).(string); ok && project != "" {
		fields = append(fields, slog.String(FieldProject, project))
	}
	if session, ok := ctx.Value(sessionKey).(string); ok && session != "" {
		fields = append(fields, slog.String(FieldSessionID, session))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
