package statetable

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/dao"
)

var noteColumns = map[string]string{
	dao.ParameterSubjectType: "subject_type",
	dao.ParameterSubjectID:   "subject_id",
	dao.ParameterWorkflow:    "workflow",
}

// NoteStore stores audit notes in the state database
type NoteStore struct {
	db *DB
}

// Notes returns note store
func (d *DB) Notes() *NoteStore {
	return &NoteStore{db: d}
}

// Save inserts or replaces note
func (s *NoteStore) Save(ctx context.Context, note *model.Note) error {
	if note == nil {
		return dao.ErrNilEntity
	}
	if note.ID == "" {
		return dao.ErrInvalidID
	}
	payload, err := json.Marshal(note)
	if err != nil {
		return err
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.db.ExecContext(ctx, `INSERT OR REPLACE INTO workflow_note (id, subject_id, subject_type, workflow, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?)`, note.ID, note.SubjectID, note.SubjectType, note.Workflow, string(payload), note.CreatedAt.UTC())
		return err
	})
}

// Load loads note by id
func (s *NoteStore) Load(ctx context.Context, id string) (*model.Note, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	ctx = ensureContext(ctx)
	var payload string
	err := s.db.db.QueryRowContext(ctx, `SELECT payload FROM workflow_note WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %v: %w", id, dao.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decodeNote(payload)
}

// Delete deletes note
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		result, err := s.db.db.ExecContext(ctx, `DELETE FROM workflow_note WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("note %v: %w", id, dao.ErrNotFound)
	}
	return nil
}

// List lists notes matching parameters, oldest first
func (s *NoteStore) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Note, error) {
	ctx = ensureContext(ctx)
	var criteria []string
	var args []interface{}
	for _, parameter := range parameters {
		column, ok := noteColumns[parameter.Name]
		if !ok {
			continue
		}
		switch value := parameter.Value.(type) {
		case string:
			criteria = append(criteria, column+" = ?")
			args = append(args, value)
		case []string:
			if len(value) == 0 {
				continue
			}
			criteria = append(criteria, column+" IN (?"+strings.Repeat(", ?", len(value)-1)+")")
			for _, item := range value {
				args = append(args, item)
			}
		}
	}
	query := `SELECT payload FROM workflow_note`
	if len(criteria) > 0 {
		query += " WHERE " + strings.Join(criteria, " AND ")
	}
	query += " ORDER BY created_at, rowid"
	rows, err := s.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()
	var ret []*model.Note
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return nil, err
		}
		note, err := decodeNote(payload)
		if err != nil {
			return nil, err
		}
		ret = append(ret, note)
	}
	return ret, rows.Err()
}

func decodeNote(payload string) (*model.Note, error) {
	ret := &model.Note{}
	if err := json.Unmarshal([]byte(payload), ret); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	return ret, nil
}

var _ dao.Service[string, model.Note] = (*NoteStore)(nil)
