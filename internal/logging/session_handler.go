package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID is the structured logging key for edit session identifiers.
const FieldSessionID = "session_id"

// sessionHandler stamps records with the edit session and project carried on
// the record's context. Records logged without a session fall back to the
// process-wide id. Keys already bound through With are left alone.
type sessionHandler struct {
	base         slog.Handler
	fallbackID   string
	boundSession bool
	boundProject bool
}

func newSessionHandler(base slog.Handler, fallbackID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &sessionHandler{base: base, fallbackID: fallbackID}
}

func (h *sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	haveSession := h.boundSession
	for _, attr := range ContextFields(ctx) {
		switch attr.Key {
		case FieldSessionID:
			if haveSession {
				continue
			}
			haveSession = true
		case FieldProject:
			if h.boundProject {
				continue
			}
		}
		record.AddAttrs(attr)
	}
	if !haveSession && h.fallbackID != "" {
		record.AddAttrs(slog.String(FieldSessionID, h.fallbackID))
	}
	return h.base.Handle(ctx, record)
}

func (h *sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.base = h.base.WithAttrs(attrs)
	for _, attr := range attrs {
		switch attr.Key {
		case FieldSessionID:
			clone.boundSession = true
		case FieldProject:
			clone.boundProject = true
		}
	}
	return &clone
}

func (h *sessionHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.base = h.base.WithGroup(name)
	return &clone
}
