package manager

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/service/event"
	"github.com/viant/markflow/service/markingstore"
	"github.com/viant/markflow/service/markingstore/property"
	"github.com/viant/markflow/service/markingstore/statetable"
)

type recordingSaver struct {
	saved    int
	omitSeen []bool
	err      error
}

func (r *recordingSaver) Save(_ context.Context, e *element.Element) error {
	r.saved++
	r.omitSeen = append(r.omitSeen, e.OmitMandatoryCheck())
	return r.err
}

func newReviewManager(t *testing.T, store markingstore.Store) (*Manager, *engine.Workflow) {
	t.Helper()
	definition := model.NewDefinition(
		[]string{"draft", "review", "approved"},
		[]*model.Transition{
			model.NewTransition("submit", []string{"draft"}, []string{"review"}),
			model.NewTransition("approve", []string{"review"}, []string{"approved"}),
		},
	)
	if store == nil {
		store = property.New("review")
	}
	dispatcher := event.NewDispatcher[*model.EventData]()
	wf, err := engine.New("review", definition, store, engine.WithDispatcher(dispatcher))
	require.NoError(t, err)
	registry := engine.NewRegistry()
	registry.Add(wf, engine.SupportedTypes{"article"})
	m := New(registry, WithDispatcher(dispatcher))
	m.RegisterWorkflow("review", model.WorkflowOptions{Priority: 1})
	return m, wf
}

func TestManager_RegisterWorkflow(t *testing.T) {
	m := New(nil)
	m.RegisterWorkflow("low", model.WorkflowOptions{Priority: 1})
	m.RegisterWorkflow("first", model.WorkflowOptions{Priority: 5})
	m.RegisterWorkflow("high", model.WorkflowOptions{Priority: 10})
	m.RegisterWorkflow("second", model.WorkflowOptions{Priority: 5})
	m.RegisterWorkflow("first", model.WorkflowOptions{Priority: 5, Label: "First"})

	var names []string
	for _, config := range m.AllWorkflows() {
		names = append(names, config.Name)
	}
	assert.Equal(t, []string{"high", "first", "second", "low"}, names)

	config, err := m.WorkflowConfig("first")
	require.NoError(t, err)
	assert.Equal(t, "First", config.Label)
	assert.Equal(t, model.TypeWorkflow, config.Type)

	_, err = m.WorkflowConfig("nonexistent")
	assert.ErrorIs(t, err, model.ErrNotFound)
	var notFound *model.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "nonexistent", notFound.Name)
}

func TestManager_PlaceConfigs(t *testing.T) {
	m := New(nil)
	m.AddPlaceConfig("review", "draft", model.PlaceOptions{Label: "Draft"})
	m.AddPlaceConfig("review", "review", model.PlaceOptions{Label: "In review"})
	m.AddPlaceConfig("review", "approved", model.PlaceOptions{Label: "Approved"})
	m.AddPlaceConfig("review", "draft", model.PlaceOptions{Label: "Draft v2"})
	m.AddPlaceConfig("orphan", "x", model.PlaceOptions{})

	assert.Equal(t, "Draft v2", m.PlaceConfig("review", "draft").Label)
	assert.Nil(t, m.PlaceConfig("review", "missing"))
	assert.Nil(t, m.PlaceConfig("missing", "draft"))
	assert.NotNil(t, m.PlaceConfig("orphan", "x"))

	var testCases = []struct {
		description string
		marking     *model.Marking
		expect      []string
	}{
		{description: "nil marking returns all in configuration order", expect: []string{"draft", "review", "approved"}},
		{description: "marking filters preserving order", marking: model.NewMarking("approved", "draft"), expect: []string{"draft", "approved"}},
		{description: "unconfigured places are skipped", marking: model.NewMarking("unknown"), expect: []string{}},
	}
	for _, testCase := range testCases {
		actual := []string{}
		for _, config := range m.OrderedPlaceConfigs("review", testCase.marking) {
			actual = append(actual, config.Place)
		}
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
	assert.Empty(t, m.PlaceConfigsByWorkflowName("missing"))
	assert.NotNil(t, m.PlaceConfigsByWorkflowName("missing"))
}

func TestManager_GlobalActions(t *testing.T) {
	m := New(nil)
	m.AddGlobalAction("review", "reset", model.GlobalActionOptions{To: []string{"draft"}})
	m.AddGlobalAction("review", "force_approve", model.GlobalActionOptions{To: []string{"approved"}})
	m.AddGlobalAction("review", "reset", model.GlobalActionOptions{Label: "Reset", To: []string{"draft"}})

	actions := m.GlobalActions("review")
	require.Len(t, actions, 2)
	assert.Equal(t, "reset", actions[0].Name)
	assert.Equal(t, "Reset", actions[0].Label)
	assert.Nil(t, m.GlobalAction("review", "missing"))
	assert.Empty(t, m.GlobalActions("missing"))
}

func TestManager_RegistryFacade(t *testing.T) {
	m, wf := newReviewManager(t, nil)
	article := element.New("1", "article")
	asset := element.New("2", "asset")

	actual, err := m.WorkflowIfExists(article, "review")
	require.NoError(t, err)
	assert.Same(t, wf, actual)

	actual, err = m.WorkflowIfExists(asset, "review")
	assert.NoError(t, err)
	assert.Nil(t, actual)

	all, err := m.AllWorkflowsForSubject(article)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	all, err = m.AllWorkflowsForSubject(asset)
	require.NoError(t, err)
	assert.Empty(t, all)

	byName, err := m.WorkflowByName("review")
	require.NoError(t, err)
	assert.Same(t, wf, byName)
	_, err = m.WorkflowByName("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	transition, err := m.TransitionByName("review", "approve")
	require.NoError(t, err)
	assert.Equal(t, []string{"approved"}, transition.To)
	transition, err = m.TransitionByName("review", "archive")
	assert.NoError(t, err)
	assert.Nil(t, transition)
	_, err = m.TransitionByName("missing", "approve")
	assert.Error(t, err)
}

func TestManager_ApplyWithAdditionalData(t *testing.T) {
	ctx := context.Background()
	m, wf := newReviewManager(t, nil)
	var comments []interface{}
	wf.Dispatcher().AddListener("workflow.review.completed", func(ctx context.Context, evt *event.Event[*model.EventData]) error {
		comments = append(comments, evt.Data.AdditionalData["notes"])
		return nil
	})
	article := element.New("1", "article")
	article.SetWorkflowPlaces("review", []string{"draft"})

	marking, err := m.ApplyWithAdditionalData(ctx, wf, article, "submit", map[string]interface{}{"notes": "first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"review"}, marking.Places())

	_, err = m.ApplyWithAdditionalData(ctx, wf, article, "submit", map[string]interface{}{"notes": "again"})
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)

	_, err = m.ApplyWithAdditionalData(ctx, wf, article, "approve", nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"first", nil}, comments, "additional data does not leak between calls")
}

func TestManager_ApplyGlobalAction(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description string
		action      string
		places      []string
		save        bool
		expect      []string
		expectSaved int
		expectErr   bool
	}{
		{description: "tos overwrite marking", action: "force_approve", places: []string{"draft"}, expect: []string{"approved"}},
		{description: "tos overwrite parallel marking", action: "force_approve", places: []string{"draft", "review"}, save: true, expect: []string{"approved"}, expectSaved: 1},
		{description: "empty tos keeps marking", action: "comment", places: []string{"review"}, expect: []string{"review"}},
		{description: "unknown action", action: "missing", places: []string{"draft"}, expectErr: true},
	}

	for _, testCase := range testCases {
		m, wf := newReviewManager(t, nil)
		m.AddGlobalAction("review", "force_approve", model.GlobalActionOptions{To: []string{"approved"}, Guard: "false"})
		m.AddGlobalAction("review", "comment", model.GlobalActionOptions{})
		var fired []string
		for _, name := range []string{EventPreGlobalAction, EventPostGlobalAction} {
			name := name
			m.Dispatcher().AddListener(name, func(ctx context.Context, evt *event.Event[*model.EventData]) error {
				fired = append(fired, name)
				assert.Equal(t, "x", evt.Data.AdditionalData["k"])
				return errors.New("ignored")
			})
		}
		saver := &recordingSaver{}
		article := element.New("1", "article").Attach(saver)
		article.SetWorkflowPlaces("review", testCase.places)

		marking, err := m.ApplyGlobalAction(ctx, wf, article, testCase.action, map[string]interface{}{"k": "x"}, testCase.save)
		if testCase.expectErr {
			assert.ErrorIs(t, err, model.ErrNotFound, testCase.description)
			assert.Empty(t, fired, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, marking.Places(), testCase.description)
		for _, place := range marking.Places() {
			assert.Equal(t, 1, marking.Tokens()[place], testCase.description)
		}
		assert.Equal(t, []string{EventPreGlobalAction, EventPostGlobalAction}, fired, testCase.description)
		assert.Equal(t, testCase.expectSaved, saver.saved, testCase.description)
	}
}

func TestManager_ApplyGlobalAction_UndefinedPlace(t *testing.T) {
	ctx := context.Background()
	m, wf := newReviewManager(t, nil)
	m.AddGlobalAction("review", "archive", model.GlobalActionOptions{To: []string{"archived"}})
	var fired []string
	for _, name := range []string{EventPreGlobalAction, EventPostGlobalAction} {
		name := name
		m.Dispatcher().AddListener(name, func(ctx context.Context, evt *event.Event[*model.EventData]) error {
			fired = append(fired, name)
			return nil
		})
	}
	saver := &recordingSaver{}
	article := element.New("1", "article").Attach(saver)
	article.SetWorkflowPlaces("review", []string{"draft"})

	_, err := m.ApplyGlobalAction(ctx, wf, article, "archive", nil, true)
	assert.ErrorContains(t, err, `place "archived" is not defined`)
	assert.Empty(t, fired)
	assert.Equal(t, 0, saver.saved)
	places, _ := article.WorkflowPlaces("review")
	assert.Equal(t, []string{"draft"}, places)

	marking, err := m.ApplyWithAdditionalData(ctx, wf, article, "submit", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"review"}, marking.Places())
}

func TestManager_EnsureInitialPlace(t *testing.T) {
	ctx := context.Background()
	m, _ := newReviewManager(t, nil)
	saver := &recordingSaver{}
	article := element.New("1", "article").Attach(saver)
	article.Mandatory = []string{"title"}

	applied, err := m.EnsureInitialPlace(ctx, "review", article)
	require.NoError(t, err)
	assert.True(t, applied)
	places, _ := article.WorkflowPlaces("review")
	assert.Equal(t, []string{"draft"}, places)
	assert.Equal(t, []bool{true}, saver.omitSeen, "mandatory check suppressed while saving")
	assert.False(t, article.OmitMandatoryCheck(), "flag restored")

	applied, err = m.EnsureInitialPlace(ctx, "review", article)
	require.NoError(t, err)
	assert.False(t, applied, "idempotent")
	assert.Equal(t, 1, saver.saved)

	applied, err = m.EnsureInitialPlace(ctx, "review", element.New("2", "asset"))
	assert.NoError(t, err)
	assert.False(t, applied, "workflow does not apply")

	applied, err = m.EnsureInitialPlace(ctx, "missing", article)
	assert.NoError(t, err)
	assert.False(t, applied)

	failing := element.New("3", "article").Attach(&recordingSaver{err: errors.New("disk full")})
	_, err = m.EnsureInitialPlace(ctx, "review", failing)
	assert.Error(t, err)
}

func TestManager_EnsureInitialPlace_MultipleInitialPlaces(t *testing.T) {
	ctx := context.Background()
	definition := model.NewDefinition([]string{"a", "b", "c"}, nil, "a", "b")
	wf, err := engine.New("parallel", definition, property.New("parallel"))
	require.NoError(t, err)
	registry := engine.NewRegistry()
	registry.Add(wf, engine.SupportedTypes{"article"})
	m := New(registry)
	m.RegisterWorkflow("parallel", model.WorkflowOptions{})

	saver := &recordingSaver{}
	article := element.New("1", "article").Attach(saver)
	applied, err := m.EnsureInitialPlace(ctx, "parallel", article)
	require.NoError(t, err)
	assert.True(t, applied)

	marking, err := wf.MarkingStore().Marking(ctx, article)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, marking.Tokens())
	assert.Equal(t, 1, saver.saved)
}

func TestManager_EnsureInitialPlace_SaveFailure(t *testing.T) {
	ctx := context.Background()
	m, wf := newReviewManager(t, nil)
	saver := &recordingSaver{err: errors.New("disk full")}
	article := element.New("1", "article").Attach(saver)

	applied, err := m.EnsureInitialPlace(ctx, "review", article)
	assert.Error(t, err)
	assert.False(t, applied)
	marking, err := wf.MarkingStore().Marking(ctx, article)
	require.NoError(t, err)
	assert.True(t, marking.IsUninitialized(), "marking restored after failed save")
	assert.False(t, marking.Has("draft"))

	saver.err = nil
	applied, err = m.EnsureInitialPlace(ctx, "review", article)
	require.NoError(t, err)
	assert.True(t, applied, "retry bootstraps again")
	assert.Equal(t, 2, saver.saved)
	places, _ := article.WorkflowPlaces("review")
	assert.Equal(t, []string{"draft"}, places)
}

func TestManager_EnsureInitialPlace_SelfPersisting(t *testing.T) {
	ctx := context.Background()
	db, err := statetable.Open(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()
	m, wf := newReviewManager(t, db.Store("review"))
	saver := &recordingSaver{}
	article := element.New("1", "article").Attach(saver)

	applied, err := m.EnsureInitialPlace(ctx, "review", article)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 0, saver.saved, "self persisting store does not save subject")

	marking, err := wf.Marking(ctx, article)
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, marking.Places())
	assert.Equal(t, []string{"draft"}, m.InitialPlacesForWorkflow(wf))
}

func TestManager_Permissions(t *testing.T) {
	ctx := context.Background()
	m, wf := newReviewManager(t, nil)
	m.AddPlaceConfig("review", "draft", model.PlaceOptions{Permissions: []*model.Permission{
		{Condition: "subject.published", Rules: map[string]bool{"publish": true}},
		{Rules: map[string]bool{"publish": false, "save": true}},
	}})
	m.AddGlobalAction("review", "unpublish", model.GlobalActionOptions{Guard: "subject.published"})
	m.AddGlobalAction("review", "reset", model.GlobalActionOptions{})

	article := element.New("1", "article")
	article.SetWorkflowPlaces("review", []string{"draft"})

	permissions, err := m.PlacePermissions(ctx, wf, article)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"publish": false, "save": true}, permissions)
	actions, err := m.AllowedGlobalActions(ctx, wf, article)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "reset", actions[0].Name)

	article.Published = true
	permissions, err = m.PlacePermissions(ctx, wf, article)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"publish": true}, permissions)
	actions, err = m.AllowedGlobalActions(ctx, wf, article)
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}
