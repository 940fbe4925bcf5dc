// Package statetable stores workflow markings in a SQLite state table,
// independent of the subject's own persistence.
package statetable

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/viant/markflow/internal/clock"
	"github.com/viant/markflow/model"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// State represents a stored row
type State struct {
	SubjectID   string
	SubjectType string
	Workflow    string
	Marking     *model.Marking
	UpdatedAt   time.Time
}

// DB represents state table database
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (and migrates) the state table database, use ":memory:" for a private in-memory database
func Open(ctx context.Context, path string) (*DB, error) {
	ctx = ensureContext(ctx)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err = db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	ret := &DB{db: db, path: path}
	if err = ret.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ret, nil
}

// Close closes database
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Path returns database path
func (d *DB) Path() string {
	return d.path
}

// Store returns marking store for the workflow
func (d *DB) Store(workflow string) *Store {
	return &Store{db: d, workflow: workflow}
}

// States returns all stored workflow states of a subject
func (d *DB) States(ctx context.Context, subjectType, subjectID string) ([]*State, error) {
	ctx = ensureContext(ctx)
	rows, err := d.db.QueryContext(ctx, `SELECT subject_id, subject_type, workflow, places, updated_at
FROM workflow_state WHERE subject_type = ? AND subject_id = ? ORDER BY workflow`, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query states: %w", err)
	}
	defer rows.Close()
	var ret []*State
	for rows.Next() {
		state := &State{}
		var places string
		if err = rows.Scan(&state.SubjectID, &state.SubjectType, &state.Workflow, &places, &state.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		if state.Marking, err = decodeMarking(places); err != nil {
			return nil, err
		}
		ret = append(ret, state)
	}
	return ret, rows.Err()
}

func (d *DB) load(ctx context.Context, workflow string, subject model.Subject) (*model.Marking, bool, error) {
	var places string
	err := retryOnBusy(ctx, func() error {
		return d.db.QueryRowContext(ctx, `SELECT places FROM workflow_state WHERE subject_type = ? AND subject_id = ? AND workflow = ?`,
			subject.SubjectType(), subject.SubjectID(), workflow).Scan(&places)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %v state of %v/%v: %w", workflow, subject.SubjectType(), subject.SubjectID(), err)
	}
	marking, err := decodeMarking(places)
	return marking, true, err
}

func (d *DB) save(ctx context.Context, workflow string, subject model.Subject, marking *model.Marking) error {
	data, err := json.Marshal(marking)
	if err != nil {
		return err
	}
	return retryOnBusy(ctx, func() error {
		_, err := d.db.ExecContext(ctx, `INSERT INTO workflow_state (subject_id, subject_type, workflow, places, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (subject_type, subject_id, workflow) DO UPDATE SET places = excluded.places, updated_at = excluded.updated_at`,
			subject.SubjectID(), subject.SubjectType(), workflow, string(data), clock.Now().UTC())
		return err
	})
}

func decodeMarking(places string) (*model.Marking, error) {
	ret := model.NewMarking()
	if err := json.Unmarshal([]byte(places), ret); err != nil {
		return nil, fmt.Errorf("decode places %q: %w", places, err)
	}
	return ret, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		if lastErr = op(); lastErr == nil || !isSQLiteBusy(lastErr) {
			return lastErr
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
