package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/meta"
)

const document = `
workflows:
  review:
    label: Content review
    priority: 10
    supports: [article, page]
    marking_store:
      type: state_table
    places:
      draft:
        label: Draft
        color: "#9e9e9e"
        permissions:
          - condition: subject.published
            rules: {publish: false}
      review: {label: In review}
      published: ~
    transitions:
      submit:
        from: draft
        to: review
        options:
          label: Submit
          notes: {commentEnabled: true, commentRequired: true}
      publish:
        from: [review]
        to: [published]
        guard: "subject.title != ''"
    globalActions:
      reset:
        label: Reset
        to: [draft]
  ticket:
    type: state_machine
    initialMarkings: open
    places: [open, closed]
    transitions:
      - name: close
        from: open
        to: closed
`

func TestDecode(t *testing.T) {
	workflows, err := Decode([]byte(document))
	require.NoError(t, err)
	require.Len(t, workflows, 2)

	review := workflows[0]
	assert.Equal(t, "review", review.Name)
	assert.True(t, review.Enabled)
	assert.Equal(t, model.WorkflowOptions{Type: model.TypeWorkflow, Label: "Content review", Priority: 10, Supports: []string{"article", "page"}}, review.Options)
	assert.Equal(t, MarkingStoreStateTable, review.MarkingStoreType())
	assert.Equal(t, []string{"draft", "review", "published"}, review.Definition.Places)
	assert.Equal(t, []string{"draft"}, review.Definition.InitialPlaces)
	require.Len(t, review.Definition.Transitions, 2)
	submit := review.Definition.Transitions[0]
	assert.Equal(t, "Submit", submit.Label)
	assert.True(t, submit.Notes.CommentRequired)
	assert.Equal(t, []string{"draft"}, submit.From)
	assert.Equal(t, "subject.title != ''", review.Definition.Transitions[1].Guard)
	assert.Equal(t, "#9e9e9e", review.Places[0].Options.Color)
	require.Len(t, review.Places[0].Options.Permissions, 1)
	assert.Equal(t, map[string]bool{"publish": false}, review.Places[0].Options.Permissions[0].Rules)
	require.Len(t, review.GlobalActions, 1)
	assert.Equal(t, []string{"draft"}, review.GlobalActions[0].Options.To)

	ticket := workflows[1]
	assert.Equal(t, model.TypeStateMachine, ticket.Options.Type)
	assert.Equal(t, MarkingStoreSingleState, ticket.MarkingStoreType())
	assert.Equal(t, []string{"open"}, ticket.Definition.InitialPlaces)
	assert.Equal(t, "close", ticket.Definition.Transitions[0].Name)
	assert.Empty(t, ticket.Definition.Validate(ticket.Options.Type))
}

func TestDecode_Invalid(t *testing.T) {
	var testCases = []struct {
		description string
		document    string
	}{
		{description: "missing workflows", document: "places: [a]"},
		{description: "unsupported key", document: "workflows:\n  a:\n    colour: red"},
		{description: "invalid priority", document: "workflows:\n  a:\n    priority: high"},
		{description: "transition without name", document: "workflows:\n  a:\n    transitions:\n      - from: a\n        to: b"},
	}
	for _, testCase := range testCases {
		_, err := Decode([]byte(testCase.document))
		assert.Error(t, err, testCase.description)
	}
}

func TestService_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workflows.yaml"), []byte(document), 0o644))
	workflows, err := New(meta.New(nil, dir)).Load(context.Background(), "workflows.yaml")
	require.NoError(t, err)
	assert.Len(t, workflows, 2)
}
