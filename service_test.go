package markflow_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow"
	"github.com/viant/markflow/internal/logging"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/runtime/engine"
	"github.com/viant/markflow/service/dao/workflow"
	"github.com/viant/markflow/service/dao/element/memory"
	"github.com/viant/markflow/service/translation"
)

func newService(t *testing.T) *markflow.Service {
	config := markflow.DefaultConfig()
	config.StateTable.DSN = filepath.Join(t.TempDir(), "state.db")
	config.Events.Stream = true
	srv, err := markflow.New(context.Background(),
		markflow.WithConfig(config),
		markflow.WithLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	workflows, err := srv.LoadWorkflows(context.Background(), filepath.Join("testdata", "workflows.yaml"))
	require.NoError(t, err)
	require.Len(t, workflows, 3)
	return srv
}

func TestService_LoadWorkflows(t *testing.T) {
	srv := newService(t)
	mgr := srv.Manager()

	var names []string
	for _, config := range mgr.AllWorkflows() {
		names = append(names, config.Name)
	}
	assert.Equal(t, []string{"translation", "review"}, names)

	_, err := mgr.WorkflowConfig("archived")
	assert.ErrorIs(t, err, model.ErrNotFound)

	placeConfig := mgr.PlaceConfig("review", "published")
	require.NotNil(t, placeConfig)
	assert.False(t, placeConfig.VisibleInHeader)
	assert.Equal(t, []string{"draft"}, mgr.GlobalAction("review", "reset").Tos)

	wf, err := mgr.WorkflowByName("translation")
	require.NoError(t, err)
	assert.Equal(t, model.TypeStateMachine, wf.Type())
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	mgr := srv.Manager()
	store := memory.New()
	article := element.New("1", "article").WithField("title", "Markings")
	require.NoError(t, store.Save(ctx, article))

	review, err := mgr.WorkflowIfExists(article, "review")
	require.NoError(t, err)
	require.NotNil(t, review)

	applied, err := mgr.EnsureInitialPlace(ctx, "review", article)
	require.NoError(t, err)
	assert.True(t, applied)
	places, _ := article.WorkflowPlaces("review")
	assert.Equal(t, []string{"draft"}, places)

	_, err = mgr.ApplyWithAdditionalData(ctx, review, article, "submit", nil)
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)

	marking, err := mgr.ApplyWithAdditionalData(ctx, review, article, "submit", map[string]interface{}{model.NotesKey: "ready"})
	require.NoError(t, err)
	assert.Equal(t, []string{"review"}, marking.Places())

	marking, err = mgr.ApplyGlobalAction(ctx, review, article, "reset", nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, marking.Places())
	saved, err := store.Load(ctx, "1")
	require.NoError(t, err)
	places, _ = saved.WorkflowPlaces("review")
	assert.Equal(t, []string{"draft"}, places)

	notes, err := srv.Notes().Notes(ctx, article, "review")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "submit", notes[0].Transition)
	assert.Equal(t, "ready", notes[0].Description)
	assert.Equal(t, "reset", notes[1].GlobalAction)

	translationWorkflow, err := mgr.WorkflowIfExists(article, "translation")
	require.NoError(t, err)
	applied, err = mgr.EnsureInitialPlace(ctx, "translation", article)
	require.NoError(t, err)
	assert.True(t, applied)
	_, err = mgr.ApplyWithAdditionalData(ctx, translationWorkflow, article, "translate", nil)
	require.NoError(t, err)
	states, err := srv.StateTable().States(ctx, "article", "1")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, []string{"translated"}, states[0].Marking.Places())
}

func TestService_Label(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	require.NoError(t, srv.Translation().Add(ctx, "Draft", "de", "Entwurf"))

	testCases := []struct {
		description string
		locale      string
		label       string
		expect      string
	}{
		{description: "default language falls back to key", label: "Draft", expect: "Draft"},
		{description: "translated", locale: "de-AT", label: "Draft", expect: "Entwurf"},
		{description: "unknown key", locale: "de", label: "Published", expect: "Published"},
		{description: "empty label", locale: "de", label: "", expect: ""},
	}
	for _, testCase := range testCases {
		requestCtx := ctx
		if testCase.locale != "" {
			requestCtx = translation.WithLocale(ctx, testCase.locale)
		}
		assert.Equal(t, testCase.expect, srv.Label(requestCtx, testCase.label), testCase.description)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	config := markflow.DefaultConfig()
	config.Logging.Format = "xml"
	_, err := markflow.New(context.Background(), markflow.WithConfig(config))
	assert.Error(t, err)
}

func TestService_Register_GlobalActionPlaces(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description string
		document    string
		expectErr   bool
	}{
		{
			description: "defined target place",
			document: `workflows:
  cleanup:
    places: [open, closed]
    transitions:
      close: {from: open, to: closed}
    globalActions:
      reopen: {to: [open]}
`,
		},
		{
			description: "undefined target place",
			document: `workflows:
  cleanup:
    places: [open, closed]
    transitions:
      close: {from: open, to: closed}
    globalActions:
      archive: {to: [archived]}
`,
			expectErr: true,
		},
	}

	for _, testCase := range testCases {
		srv, err := markflow.New(ctx, markflow.WithLogger(logging.Discard()))
		require.NoError(t, err, testCase.description)
		workflows, err := workflow.Decode([]byte(testCase.document))
		require.NoError(t, err, testCase.description)
		err = srv.Register(ctx, workflows...)
		if testCase.expectErr {
			assert.ErrorContains(t, err, `place "archived" is not defined`, testCase.description)
			_, lookupErr := srv.Manager().WorkflowByName("cleanup")
			assert.Error(t, lookupErr, testCase.description)
		} else {
			assert.NoError(t, err, testCase.description)
			assert.Equal(t, []string{"open"}, srv.Manager().GlobalAction("cleanup", "reopen").Tos, testCase.description)
		}
		_ = srv.Close()
	}
}
