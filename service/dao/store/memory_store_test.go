package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/dao/criteria"
)

type record struct {
	ID   string
	Kind string
}

func newRecordStore() *MemoryStore[string, record] {
	return NewMemoryStore[string, record](func(r *record) string { return r.ID },
		WithFields[string, record](func(r *record) criteria.Fields {
			return func(name string) (string, bool) {
				if name == dao.ParameterSubjectType {
					return r.Kind, true
				}
				return "", false
			}
		}))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := newRecordStore()

	assert.True(t, errors.Is(store.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(store.Save(ctx, &record{}), dao.ErrInvalidID))

	assert.NoError(t, store.Save(ctx, &record{ID: "2", Kind: "asset"}))
	assert.NoError(t, store.Save(ctx, &record{ID: "1", Kind: "document"}))
	assert.NoError(t, store.Save(ctx, &record{ID: "2", Kind: "document"}))

	loaded, err := store.Load(ctx, "2")
	assert.NoError(t, err)
	assert.Equal(t, "document", loaded.Kind)

	_, err = store.Load(ctx, "3")
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	all, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "2", all[0].ID, "insertion order is preserved across overwrite")
	assert.Equal(t, "1", all[1].ID)

	documents, err := store.List(ctx, dao.NewParameter(dao.ParameterSubjectType, "document"))
	assert.NoError(t, err)
	assert.Len(t, documents, 2)

	assert.NoError(t, store.Delete(ctx, "2"))
	assert.True(t, errors.Is(store.Delete(ctx, "2"), dao.ErrNotFound))
	all, _ = store.List(ctx)
	assert.Len(t, all, 1)
}
