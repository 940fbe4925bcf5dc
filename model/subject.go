package model

import "context"

// Subject represents any entity that can take part in workflows
type Subject interface {
	SubjectID() string
	SubjectType() string
}

// Persistable is implemented by subjects that can be saved
type Persistable interface {
	Save(ctx context.Context) error
}

// MandatoryCheckToggler is implemented by subjects with mandatory field validation on save
type MandatoryCheckToggler interface {
	OmitMandatoryCheck() bool
	SetOmitMandatoryCheck(omit bool)
}

// MarkingHolder is implemented by subjects keeping their workflow places in a property
type MarkingHolder interface {
	// WorkflowPlaces returns stored places, ok is false if nothing was ever stored
	WorkflowPlaces(workflow string) (places []string, ok bool)
	SetWorkflowPlaces(workflow string, places []string)
}

// PropertySource exposes subject properties to guard and condition expressions
type PropertySource interface {
	Properties() map[string]interface{}
}
