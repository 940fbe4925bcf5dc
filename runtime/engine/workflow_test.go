package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/model/element"
	"github.com/viant/markflow/service/event"
	"github.com/viant/markflow/service/markingstore/property"
)

func reviewDefinition() *model.Definition {
	return model.NewDefinition(
		[]string{"draft", "review", "legal", "published", "rejected"},
		[]*model.Transition{
			model.NewTransition("submit", []string{"draft"}, []string{"review", "legal"}),
			model.NewTransition("approve", []string{"review", "legal"}, []string{"published"}).WithGuard("subject.published == false"),
			model.NewTransition("reject", []string{"review"}, []string{"rejected"}),
		},
	)
}

func newReviewWorkflow(t *testing.T, opts ...Option) *Workflow {
	wf, err := New("review", reviewDefinition(), property.New("review"), opts...)
	require.NoError(t, err)
	return wf
}

func TestWorkflow_Marking(t *testing.T) {
	ctx := context.Background()
	wf := newReviewWorkflow(t)

	fresh := element.New("1", "article")
	marking, err := wf.Marking(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, marking.IsUninitialized(), "never placed subject reports sentinel")

	empty := element.New("2", "article")
	empty.SetWorkflowPlaces("review", nil)
	marking, err = wf.Marking(ctx, empty)
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, marking.Places())
	places, _ := empty.WorkflowPlaces("review")
	assert.Equal(t, []string{"draft"}, places)

	unknown := element.New("3", "article")
	unknown.SetWorkflowPlaces("review", []string{"archived"})
	_, err = wf.Marking(ctx, unknown)
	assert.Error(t, err)
}

func TestWorkflow_Apply(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description string
		places      []string
		published   bool
		transition  string
		expect      []string
		expectErr   bool
	}{
		{description: "fork into parallel places", places: []string{"draft"}, transition: "submit", expect: []string{"legal", "review"}},
		{description: "join requires all input places", places: []string{"review", "legal"}, transition: "approve", expect: []string{"published"}},
		{description: "join blocked when one input place missing", places: []string{"review"}, transition: "approve", expectErr: true},
		{description: "guard expression blocks", places: []string{"review", "legal"}, published: true, transition: "approve", expectErr: true},
		{description: "unknown transition", places: []string{"draft"}, transition: "archive", expectErr: true},
		{description: "partial consumption keeps other places", places: []string{"review", "legal"}, transition: "reject", expect: []string{"legal", "rejected"}},
	}

	for _, testCase := range testCases {
		wf := newReviewWorkflow(t)
		doc := element.New("1", "article")
		doc.Published = testCase.published
		doc.SetWorkflowPlaces("review", testCase.places)
		marking, err := wf.Apply(ctx, doc, testCase.transition)
		if testCase.expectErr {
			assert.ErrorIs(t, err, ErrInvalidTransition, testCase.description)
			var invalid *InvalidTransitionError
			assert.True(t, errors.As(err, &invalid), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, marking.Places(), testCase.description)
		places, _ := doc.WorkflowPlaces("review")
		assert.Equal(t, testCase.expect, places, testCase.description)
	}
}

func TestWorkflow_Events(t *testing.T) {
	ctx := context.Background()
	dispatcher := event.NewDispatcher[*model.EventData]()
	var names []string
	var data []interface{}
	record := func(name string) {
		dispatcher.AddListener(name, func(ctx context.Context, evt *event.Event[*model.EventData]) error {
			names = append(names, name)
			data = append(data, evt.Data.AdditionalData["comment"])
			return nil
		})
	}
	for _, name := range []string{
		"workflow.guard", "workflow.review.leave.draft", "workflow.review.transition",
		"workflow.enter", "workflow.review.entered.review", "workflow.review.completed.submit",
	} {
		record(name)
	}
	wf := newReviewWorkflow(t, WithDispatcher(dispatcher))
	doc := element.New("1", "article")
	doc.SetWorkflowPlaces("review", []string{"draft"})

	_, err := wf.Apply(ctx, doc, "submit", WithContext(map[string]interface{}{"comment": "ready"}))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"workflow.guard",
		"workflow.review.leave.draft",
		"workflow.review.transition",
		"workflow.enter", "workflow.enter",
		"workflow.review.entered.review",
		"workflow.review.completed.submit",
	}, names)
	for _, item := range data {
		assert.Equal(t, "ready", item)
	}
}

func TestWorkflow_GuardListenerBlocks(t *testing.T) {
	ctx := context.Background()
	dispatcher := event.NewDispatcher[*model.EventData]()
	dispatcher.AddListener("workflow.review.guard.submit", func(ctx context.Context, evt *event.Event[*model.EventData]) error {
		if evt.Data.AdditionalData["approved"] != true {
			evt.Block("approval missing")
		}
		return nil
	})
	wf := newReviewWorkflow(t, WithDispatcher(dispatcher))
	doc := element.New("1", "article")
	doc.SetWorkflowPlaces("review", []string{"draft"})

	can, err := wf.Can(ctx, doc, "submit")
	require.NoError(t, err)
	assert.False(t, can)

	_, err = wf.Apply(ctx, doc, "submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approval missing")

	marking, err := wf.Apply(ctx, doc, "submit", WithContext(map[string]interface{}{"approved": true}))
	require.NoError(t, err)
	assert.Equal(t, []string{"legal", "review"}, marking.Places())
}

func TestWorkflow_EnabledTransitions(t *testing.T) {
	ctx := context.Background()
	wf := newReviewWorkflow(t)
	doc := element.New("1", "article")
	doc.SetWorkflowPlaces("review", []string{"review", "legal"})
	transitions, err := wf.EnabledTransitions(ctx, doc)
	require.NoError(t, err)
	var names []string
	for _, transition := range transitions {
		names = append(names, transition.Name)
	}
	assert.Equal(t, []string{"approve", "reject"}, names)
}

func TestWorkflow_StateMachine(t *testing.T) {
	ctx := context.Background()
	definition := model.NewDefinition(
		[]string{"new", "open", "closed"},
		[]*model.Transition{
			model.NewTransition("start", []string{"new"}, []string{"open"}),
			model.NewTransition("close", []string{"new", "open"}, []string{"closed"}),
		},
	)
	wf, err := New("ticket", definition, property.New("ticket", property.WithSingleState()), WithType(model.TypeStateMachine))
	require.NoError(t, err)
	assert.Equal(t, "state_machine.ticket", wf.ServiceID())

	doc := element.New("1", "ticket")
	doc.SetWorkflowPlaces("ticket", []string{"open"})
	marking, err := wf.Apply(ctx, doc, "close")
	require.NoError(t, err)
	assert.Equal(t, []string{"closed"}, marking.Places())
}

func TestNew_InvalidDefinition(t *testing.T) {
	definition := model.NewDefinition([]string{"a"}, []*model.Transition{model.NewTransition("go", []string{"a"}, []string{"b"})})
	_, err := New("broken", definition, property.New("broken"))
	assert.Error(t, err)

	_, err = New("typed", model.NewDefinition([]string{"a"}, nil), property.New("typed"), WithType("petri"))
	assert.Error(t, err)
}
