package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSessionHandlerFallsBackToProcessID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionHandler(slog.NewJSONHandler(&buf, nil), "run-123"))
	logger.Info("opened")

	if !strings.Contains(buf.String(), `"session_id":"run-123"`) {
		t.Fatalf("expected fallback session id, got: %s", buf.String())
	}
}

func TestSessionHandlerPrefersContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionHandler(slog.NewJSONHandler(&buf, nil), "run-123"))
	ctx := WithSession(WithProject(context.Background(), "demo"), "edit-9")
	logger.InfoContext(ctx, "split")

	output := buf.String()
	if !strings.Contains(output, `"session_id":"edit-9"`) || !strings.Contains(output, `"project":"demo"`) {
		t.Fatalf("expected context fields, got: %s", output)
	}
	if strings.Contains(output, "run-123") {
		t.Fatalf("fallback id should not be added when context carries a session: %s", output)
	}
}

func TestSessionHandlerKeepsBoundSession(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newSessionHandler(slog.NewJSONHandler(&buf, nil), "run-123")).
		With(FieldSessionID, "bound-1", "extra", "value")
	logger.InfoContext(WithSession(context.Background(), "edit-9"), "undo")

	output := buf.String()
	if strings.Count(output, FieldSessionID) != 1 || !strings.Contains(output, `"session_id":"bound-1"`) {
		t.Fatalf("expected only the bound session id, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Fatalf("expected extra attr in output, got: %s", output)
	}
}

func TestSessionHandlerNilBase(t *testing.T) {
	if _, ok := newSessionHandler(nil, "run-123").(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when base is nil")
	}
}
