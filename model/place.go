package model

// Permission grants rules when its condition holds for a subject; an empty
// condition always holds
type Permission struct {
	Condition string          `json:"condition,omitempty" yaml:"condition,omitempty"`
	Rules     map[string]bool `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// PlaceOptions represents place metadata as declared in configuration
type PlaceOptions struct {
	Label           string        `json:"label,omitempty" yaml:"label,omitempty"`
	Title           string        `json:"title,omitempty" yaml:"title,omitempty"`
	Color           string        `json:"color,omitempty" yaml:"color,omitempty"`
	ColorInverted   bool          `json:"colorInverted,omitempty" yaml:"colorInverted,omitempty"`
	VisibleInHeader *bool         `json:"visibleInHeader,omitempty" yaml:"visibleInHeader,omitempty"`
	Permissions     []*Permission `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// PlaceConfig represents display and behavioral metadata of a workflow place
type PlaceConfig struct {
	Workflow        string        `json:"workflow"`
	Place           string        `json:"place"`
	Label           string        `json:"label,omitempty"`
	Title           string        `json:"title,omitempty"`
	Color           string        `json:"color,omitempty"`
	ColorInverted   bool          `json:"colorInverted,omitempty"`
	VisibleInHeader bool          `json:"visibleInHeader"`
	Permissions     []*Permission `json:"permissions,omitempty"`
}

// NewPlaceConfig creates a place config; places are visible in header unless disabled
func NewPlaceConfig(workflow, place string, options PlaceOptions) *PlaceConfig {
	ret := &PlaceConfig{
		Workflow:        workflow,
		Place:           place,
		Label:           options.Label,
		Title:           options.Title,
		Color:           options.Color,
		ColorInverted:   options.ColorInverted,
		VisibleInHeader: true,
		Permissions:     options.Permissions,
	}
	if options.VisibleInHeader != nil {
		ret.VisibleInHeader = *options.VisibleInHeader
	}
	return ret
}

// DisplayLabel returns label or place name when label is not set
func (p *PlaceConfig) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Place
}

// BackgroundColor returns the color used as badge background
func (p *PlaceConfig) BackgroundColor() string {
	if p.ColorInverted {
		return "#ffffff"
	}
	return p.Color
}

// BorderColor returns the color used as badge border
func (p *PlaceConfig) BorderColor() string {
	return p.Color
}

// FontColor returns the color used for badge text
func (p *PlaceConfig) FontColor() string {
	if p.ColorInverted {
		return p.Color
	}
	return "#ffffff"
}
