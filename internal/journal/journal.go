package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// timeLayout is fixed-width so recorded_at sorts lexicographically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Options selects the journal backend.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
}

// Entry is one journaled command outcome.
type Entry struct {
	ID          string
	Project     string
	SessionID   string
	Action      string
	Name        string
	Description string
	GroupID     string
	Success     bool
	Error       string
	Duration    time.Duration
	RecordedAt  time.Time
}

// Journal persists entries to SQLite or Postgres.
type Journal struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured backend and ensures the schema exists.
func Open(ctx context.Context, opts Options) (*Journal, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		if opts.Path == "" {
			return nil, errors.New("journal: sqlite path required")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
		db, err = sql.Open("sqlite", opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout = 5000",
		}
		for _, pragma := range pragmas {
			if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
			}
		}
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, errors.New("journal: postgres dsn required")
		}
		db, err = sql.Open("pgx", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
	default:
		return nil, fmt.Errorf("journal: unsupported driver %q", opts.Driver)
	}

	j := &Journal{db: db, driver: driver}
	if err := j.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Driver reports the backend in use.
func (j *Journal) Driver() string { return j.driver }

// Record appends entry, assigning an id and timestamp when missing.
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Project) == "" {
		return errors.New("journal: entry project required")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	success := 0
	if entry.Success {
		success = 1
	}
	_, err := j.db.ExecContext(ctx, j.rebind(`INSERT INTO command_journal (
            id, project, session_id, action, name, description,
            group_id, success, error, duration_ms, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		entry.ID,
		entry.Project,
		entry.SessionID,
		entry.Action,
		entry.Name,
		entry.Description,
		entry.GroupID,
		success,
		entry.Error,
		entry.Duration.Milliseconds(),
		entry.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for project, newest first.
func (j *Journal) Recent(ctx context.Context, project string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, j.rebind(`SELECT
            id, project, session_id, action, name, description,
            group_id, success, error, duration_ms, recorded_at
        FROM command_journal
        WHERE project = ?
        ORDER BY recorded_at DESC, id DESC
        LIMIT ?`), project, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			success    int
			durationMs int64
			recordedAt string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Project,
			&entry.SessionID,
			&entry.Action,
			&entry.Name,
			&entry.Description,
			&entry.GroupID,
			&success,
			&entry.Error,
			&durationMs,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Success = success != 0
		entry.Duration = time.Duration(durationMs) * time.Millisecond
		if ts, err := time.Parse(timeLayout, recordedAt); err == nil {
			entry.RecordedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// rebind rewrites ? placeholders to $1, $2, ... for Postgres.
func (j *Journal) rebind(query string) string {
	if j.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
