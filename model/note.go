package model

import "time"

// Note represents an audit note recorded for a transition or global action
type Note struct {
	ID             string                 `json:"id"`
	SubjectID      string                 `json:"subjectId"`
	SubjectType    string                 `json:"subjectType"`
	Workflow       string                 `json:"workflow"`
	Transition     string                 `json:"transition,omitempty"`
	GlobalAction   string                 `json:"globalAction,omitempty"`
	Type           string                 `json:"type"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Places         []string               `json:"places,omitempty"`
	AdditionalData map[string]interface{} `json:"additionalData,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}
