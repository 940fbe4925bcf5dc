package element

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSaver struct {
	saved []string
}

func (r *recordingSaver) Save(_ context.Context, element *Element) error {
	r.saved = append(r.saved, element.ID)
	return nil
}

func TestElement_Save(t *testing.T) {
	saver := &recordingSaver{}
	element := New("1", "document").WithMandatory("title").Attach(saver)

	err := element.Save(context.Background())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, saver.saved)

	element.SetOmitMandatoryCheck(true)
	assert.NoError(t, element.Save(context.Background()))
	assert.Equal(t, []string{"1"}, saver.saved)

	element.SetOmitMandatoryCheck(false)
	element.WithField("title", "Home")
	assert.NoError(t, element.Save(context.Background()))
	assert.Len(t, saver.saved, 2)
}

func TestElement_SaveWithoutSaver(t *testing.T) {
	assert.Error(t, New("1", "document").Save(context.Background()))
}

func TestElement_WorkflowPlaces(t *testing.T) {
	element := New("1", "document")
	_, ok := element.WorkflowPlaces("review")
	assert.False(t, ok)

	element.SetWorkflowPlaces("review", []string{"draft"})
	places, ok := element.WorkflowPlaces("review")
	assert.True(t, ok)
	assert.Equal(t, []string{"draft"}, places)
}

func TestElement_Properties(t *testing.T) {
	element := New("7", "asset").WithField("size", 10)
	element.Published = true
	props := element.Properties()
	assert.Equal(t, "7", props["id"])
	assert.Equal(t, true, props["published"])
	assert.Equal(t, 10, props["size"])
}
