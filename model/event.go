package model

// EventData is the payload carried by workflow and global action events
type EventData struct {
	Workflow       string                 `json:"workflow"`
	Subject        Subject                `json:"-"`
	Marking        *Marking               `json:"marking,omitempty"`
	Transition     *Transition            `json:"transition,omitempty"`
	GlobalAction   *GlobalAction          `json:"globalAction,omitempty"`
	Place          string                 `json:"place,omitempty"`
	AdditionalData map[string]interface{} `json:"additionalData,omitempty"`
}

// Comment returns the note comment passed with additional data
func (d *EventData) Comment() string {
	if d == nil || d.AdditionalData == nil {
		return ""
	}
	if comment, ok := d.AdditionalData[NotesKey].(string); ok {
		return comment
	}
	return ""
}

// NotesKey is the additional data key holding the note comment
const NotesKey = "notes"
