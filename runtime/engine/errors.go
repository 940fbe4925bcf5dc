package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotApplicable is returned by the registry when no workflow supports the subject
	ErrNotApplicable = errors.New("workflow not applicable")

	// ErrInvalidTransition is returned when a transition cannot be applied
	ErrInvalidTransition = errors.New("invalid transition")
)

// InvalidTransitionError describes why a transition was rejected
type InvalidTransitionError struct {
	Workflow   string
	Transition string
	SubjectID  string
	Reasons    []string
}

func (e *InvalidTransitionError) Error() string {
	ret := fmt.Sprintf("transition %q is not enabled for subject %v in workflow %q", e.Transition, e.SubjectID, e.Workflow)
	if len(e.Reasons) > 0 {
		ret += ": " + strings.Join(e.Reasons, "; ")
	}
	return ret
}

// Is reports ErrInvalidTransition equivalence
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
