package statetable

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/dao"
)

func TestNoteStore(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()
	store := db.Notes()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	notes := []*model.Note{
		{ID: "n1", SubjectID: "1", SubjectType: "article", Workflow: "review", Transition: "submit", Title: "Submit", CreatedAt: created},
		{ID: "n2", SubjectID: "1", SubjectType: "article", Workflow: "review", GlobalAction: "reset", Description: "rollback", CreatedAt: created.Add(time.Minute)},
		{ID: "n3", SubjectID: "2", SubjectType: "article", Workflow: "translation", CreatedAt: created},
	}
	for _, note := range notes {
		require.NoError(t, store.Save(ctx, note))
	}
	assert.ErrorIs(t, store.Save(ctx, &model.Note{}), dao.ErrInvalidID)

	loaded, err := store.Load(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, "rollback", loaded.Description)
	assert.True(t, created.Add(time.Minute).Equal(loaded.CreatedAt))

	listed, err := store.List(ctx, dao.NewParameter(dao.ParameterSubjectType, "article"), dao.NewParameter(dao.ParameterSubjectID, "1"))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "n1", listed[0].ID)
	assert.Equal(t, "n2", listed[1].ID)

	listed, err = store.List(ctx, dao.NewParameter(dao.ParameterWorkflow, "review", "translation"))
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	require.NoError(t, store.Delete(ctx, "n3"))
	assert.ErrorIs(t, store.Delete(ctx, "n3"), dao.ErrNotFound)
	_, err = store.Load(ctx, "n3")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
