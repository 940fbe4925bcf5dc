package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/markflow/service/messaging/memory"
)

func TestDispatcher_Dispatch(t *testing.T) {
	var testCases = []struct {
		description string
		register    []string
		dispatch    []string
		block       bool
		fail        bool
		expectCalls []string
		expectErr   bool
	}{
		{
			description: "listeners for every name are called in order",
			register:    []string{"workflow.guard", "workflow.review.guard"},
			dispatch:    []string{"workflow.guard", "workflow.review.guard", "workflow.review.guard.approve"},
			expectCalls: []string{"workflow.guard", "workflow.review.guard"},
		},
		{
			description: "blocking listener marks event",
			register:    []string{"workflow.guard"},
			dispatch:    []string{"workflow.guard"},
			block:       true,
			expectCalls: []string{"workflow.guard"},
		},
		{
			description: "listener error is returned after all listeners ran",
			register:    []string{"a", "b"},
			dispatch:    []string{"a", "b"},
			fail:        true,
			expectCalls: []string{"a", "b"},
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		dispatcher := NewDispatcher[string]()
		var calls []string
		for _, name := range testCase.register {
			name := name
			dispatcher.AddListener(name, func(ctx context.Context, evt *Event[string]) error {
				calls = append(calls, name)
				if testCase.block {
					evt.Block("not allowed")
				}
				if testCase.fail {
					return errors.New("failure")
				}
				return nil
			})
		}
		evt := NewEvent("guard", "payload")
		err := dispatcher.Dispatch(context.Background(), evt, testCase.dispatch...)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
		} else {
			assert.NoError(t, err, testCase.description)
		}
		assert.Equal(t, testCase.expectCalls, calls, testCase.description)
		assert.Equal(t, testCase.block, evt.Blocked(), testCase.description)
	}
}

func TestDispatcher_Publisher(t *testing.T) {
	queue := memory.NewQueue[Event[string]](memory.DefaultConfig())
	publisher := NewPublisher[string](queue)
	dispatcher := NewDispatcher[string](WithPublisher[string](publisher))

	var mux sync.Mutex
	var received []string
	listener := NewListener[string](publisher, func(evt *Event[string]) {
		mux.Lock()
		received = append(received, evt.Name)
		mux.Unlock()
	}, nil)
	listener.Start(context.Background())

	require.NoError(t, dispatcher.Dispatch(context.Background(), NewEvent("workflow.completed", "x")))
	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)
	listener.Stop()
	listener.Stop()
	assert.Equal(t, []string{"workflow.completed"}, received)
}
