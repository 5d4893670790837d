package projectfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"reelcut/internal/blob"
	"reelcut/internal/clipops"
	"reelcut/internal/logging"
	"reelcut/internal/timeline"
)

const (
	// ContentType is stored alongside every project blob.
	ContentType = "application/json"
	extension   = ".json"
)

// ErrNotFound reports a project key with no stored document.
var ErrNotFound = errors.New("project not found")

// Key maps a project name to its blob key.
func Key(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("project name required")
	}
	if strings.HasSuffix(name, extension) {
		return name, nil
	}
	return name + extension, nil
}

// Name is the inverse of Key.
func Name(key string) string {
	return strings.TrimSuffix(key, extension)
}

// Files reads and writes projects in one blob store.
type Files struct {
	store  blob.Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures Files.
type Option func(*Files)

// WithClock overrides the modifiedAt time source.
func WithClock(now func() time.Time) Option {
	return func(f *Files) { f.now = now }
}

// New returns Files backed by store.
func New(store blob.Store, logger *slog.Logger, opts ...Option) *Files {
	f := &Files{
		store:  store,
		logger: logging.NewComponentLogger(logger, "projectfile"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load reads and validates the named project.
func (f *Files) Load(ctx context.Context, name string) (*timeline.Project, error) {
	key, err := Key(name)
	if err != nil {
		return nil, err
	}
	_, rc, err := f.store.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, Name(key))
	}
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()

	project, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode project %s: %w", key, err)
	}
	if err := f.validate(logging.WithProject(ctx, Name(key)), project); err != nil {
		return nil, fmt.Errorf("project %s: %w", key, err)
	}
	return project, nil
}

// Save writes project under name, stamping modifiedAt.
func (f *Files) Save(ctx context.Context, name string, project *timeline.Project) (blob.Info, error) {
	key, err := Key(name)
	if err != nil {
		return blob.Info{}, err
	}
	if project == nil {
		return blob.Info{}, errors.New("nil project")
	}
	project.ModifiedAt = f.now().UTC().Format(time.RFC3339Nano)

	var buf bytes.Buffer
	if err := Encode(&buf, project); err != nil {
		return blob.Info{}, fmt.Errorf("encode project %s: %w", key, err)
	}
	info, err := f.store.Put(ctx, key, &buf, blob.PutOptions{ContentType: ContentType})
	if err != nil {
		return blob.Info{}, fmt.Errorf("write project %s: %w", key, err)
	}
	f.logger.Debug("project saved",
		logging.String(logging.FieldProject, Name(key)),
		logging.Int64("size_bytes", info.Size),
	)
	return info, nil
}

// Exists reports whether a project is stored under name.
func (f *Files) Exists(ctx context.Context, name string) (bool, error) {
	key, err := Key(name)
	if err != nil {
		return false, err
	}
	_, err = f.store.Head(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, blob.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// List returns stored project names in key order.
func (f *Files) List(ctx context.Context) ([]string, error) {
	infos, err := f.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if strings.HasSuffix(info.Key, extension) {
			names = append(names, Name(info.Key))
		}
	}
	return names, nil
}

// Decode parses a project document.
func Decode(r io.Reader) (*timeline.Project, error) {
	var project timeline.Project
	if err := json.NewDecoder(r).Decode(&project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Encode writes project as indented JSON.
func Encode(w io.Writer, project *timeline.Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(project)
}

// validate checks invariants and repairs layout drift in place. Problems a
// reflow cannot fix are returned.
func (f *Files) validate(ctx context.Context, project *timeline.Project) error {
	checkErr := project.Check()
	end := contentEnd(project)
	if checkErr == nil && project.Timeline.Duration+timeline.Tolerance >= end {
		return nil
	}

	moved := 0
	if checkErr != nil {
		for _, track := range project.Timeline.Tracks {
			moved += len(clipops.Reflow(project, track, 0, clipops.ReflowOptions{}))
		}
		if err := project.Check(); err != nil {
			return err
		}
	}
	previous := project.Timeline.Duration
	if previous+timeline.Tolerance < contentEnd(project) {
		clipops.RecomputeDuration(project)
	}

	attrs := []logging.Attr{
		logging.Int("clips_moved", moved),
		logging.Float64("duration_before", previous),
		logging.Float64("duration_after", project.Timeline.Duration),
		logging.String(logging.FieldErrorHint, "save the project to persist the repaired layout"),
	}
	if checkErr != nil {
		attrs = append(attrs, logging.Error(checkErr))
	}
	logging.WarnWithContext(ctx, f.logger, "project layout repaired on load", "project_repaired", attrs...)
	return nil
}

func contentEnd(project *timeline.Project) float64 {
	var end float64
	for _, clip := range project.Clips() {
		if e := clip.End(); e > end {
			end = e
		}
	}
	return end
}
