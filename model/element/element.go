// Package element provides a content element usable as workflow subject.
package element

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/markflow/model"
)

// ErrValidation is returned by Save when a mandatory field is empty
var ErrValidation = errors.New("validation failed")

// Saver persists elements
type Saver interface {
	Save(ctx context.Context, element *Element) error
}

// Element represents a content item (document, asset, data object)
type Element struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Key       string                 `json:"key,omitempty"`
	Published bool                   `json:"published"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Mandatory []string               `json:"mandatory,omitempty"`
	States    map[string][]string    `json:"states,omitempty"`

	omitMandatoryCheck bool
	saver              Saver
	mux                sync.RWMutex
}

var (
	_ model.Subject               = (*Element)(nil)
	_ model.Persistable           = (*Element)(nil)
	_ model.MandatoryCheckToggler = (*Element)(nil)
	_ model.MarkingHolder         = (*Element)(nil)
	_ model.PropertySource        = (*Element)(nil)
)

// New creates an element
func New(id, elementType string) *Element {
	return &Element{ID: id, Type: elementType, Fields: map[string]interface{}{}}
}

// SubjectID returns element id
func (e *Element) SubjectID() string { return e.ID }

// SubjectType returns element type
func (e *Element) SubjectType() string { return e.Type }

// Attach sets the saver used by Save
func (e *Element) Attach(saver Saver) *Element {
	e.saver = saver
	return e
}

// WithField sets a field value
func (e *Element) WithField(name string, value interface{}) *Element {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.Fields == nil {
		e.Fields = map[string]interface{}{}
	}
	e.Fields[name] = value
	return e
}

// WithMandatory declares mandatory fields
func (e *Element) WithMandatory(fields ...string) *Element {
	e.Mandatory = append(e.Mandatory, fields...)
	return e
}

// OmitMandatoryCheck returns true if Save skips mandatory field validation
func (e *Element) OmitMandatoryCheck() bool { return e.omitMandatoryCheck }

// SetOmitMandatoryCheck toggles mandatory field validation
func (e *Element) SetOmitMandatoryCheck(omit bool) { e.omitMandatoryCheck = omit }

// WorkflowPlaces returns stored places for a workflow
func (e *Element) WorkflowPlaces(workflow string) ([]string, bool) {
	e.mux.RLock()
	defer e.mux.RUnlock()
	places, ok := e.States[workflow]
	if !ok {
		return nil, false
	}
	return append([]string(nil), places...), true
}

// SetWorkflowPlaces stores places for a workflow
func (e *Element) SetWorkflowPlaces(workflow string, places []string) {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.States == nil {
		e.States = map[string][]string{}
	}
	e.States[workflow] = append([]string(nil), places...)
}

// Properties returns values exposed to guard and condition expressions
func (e *Element) Properties() map[string]interface{} {
	e.mux.RLock()
	defer e.mux.RUnlock()
	ret := make(map[string]interface{}, len(e.Fields)+4)
	for k, v := range e.Fields {
		ret[k] = v
	}
	ret["id"] = e.ID
	ret["type"] = e.Type
	ret["key"] = e.Key
	ret["published"] = e.Published
	return ret
}

// Validate checks mandatory fields
func (e *Element) Validate() error {
	e.mux.RLock()
	defer e.mux.RUnlock()
	var missing []string
	for _, name := range e.Mandatory {
		value, ok := e.Fields[name]
		if !ok || value == nil || value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %v: empty mandatory fields %v", ErrValidation, e.ID, missing)
}

// Save validates (unless omitted) and persists the element
func (e *Element) Save(ctx context.Context) error {
	if !e.omitMandatoryCheck {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	if e.saver == nil {
		return fmt.Errorf("element %v has no saver attached", e.ID)
	}
	return e.saver.Save(ctx, e)
}
