// Package workflow loads workflow configuration documents (YAML or JSON):
//
//	workflows:
//	  review:
//	    type: workflow
//	    priority: 10
//	    supports: [article]
//	    markingStore: {type: state_table}
//	    initialMarkings: [draft]
//	    places:
//	      draft: {label: Draft, color: "#9e9e9e"}
//	      published: {label: Published}
//	    transitions:
//	      publish:
//	        from: draft
//	        to: published
//	        guard: subject.title != ''
//	        options: {label: Publish, notes: {commentRequired: true}}
//	    globalActions:
//	      reset: {label: Reset, to: [draft]}
//
// Mapping order of places, transitions and global actions is preserved.
package workflow

import (
	"context"
	"fmt"

	"github.com/viant/markflow/internal/yml"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/meta"
	"gopkg.in/yaml.v3"
)

// Service loads workflow configuration
type Service struct {
	meta *meta.Service
}

// Load loads workflows from URL
func (s *Service) Load(ctx context.Context, URL string) ([]*Workflow, error) {
	var node yaml.Node
	if err := s.meta.Load(ctx, URL, &node); err != nil {
		return nil, err
	}
	ret, err := Parse(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workflows from %v: %w", URL, err)
	}
	return ret, nil
}

// Decode decodes workflows from YAML or JSON content
func Decode(data []byte) ([]*Workflow, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return Parse(&node)
}

// Parse parses workflows document node
func Parse(node *yaml.Node) ([]*Workflow, error) {
	workflows := yml.Root(node).Lookup("workflows")
	if workflows == nil {
		return nil, fmt.Errorf("workflows node was missing")
	}
	var ret []*Workflow
	err := workflows.Pairs(func(name string, node *yml.Node) error {
		workflow, err := parseWorkflow(name, node)
		if err != nil {
			return fmt.Errorf("workflow %v: %w", name, err)
		}
		ret = append(ret, workflow)
		return nil
	})
	return ret, err
}

func parseWorkflow(name string, node *yml.Node) (*Workflow, error) {
	ret := &Workflow{Name: name, Enabled: true, Options: model.WorkflowOptions{Type: model.TypeWorkflow}}
	var transitions []*model.Transition
	var initial []string
	err := node.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch yml.Key(key) {
		case "enabled":
			err = value.Decode(&ret.Enabled)
		case "label":
			ret.Options.Label = value.Value
		case "type":
			ret.Options.Type = value.Value
		case "priority":
			ret.Options.Priority, err = value.Int()
		case "supports":
			ret.Options.Supports, err = value.Strings()
		case "markingstore":
			err = value.Decode(&ret.MarkingStore)
		case "initialmarkings", "initialmarking", "initialplaces", "initialplace":
			initial, err = value.Strings()
		case "places":
			ret.Places, err = parsePlaces(value)
		case "transitions":
			transitions, err = parseTransitions(value)
		case "globalactions":
			ret.GlobalActions, err = parseGlobalActions(value)
		default:
			err = fmt.Errorf("unsupported key %v at line %d", key, value.Line)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	places := make([]string, 0, len(ret.Places))
	for _, place := range ret.Places {
		places = append(places, place.Name)
	}
	ret.Definition = model.NewDefinition(places, transitions, initial...)
	return ret, nil
}

func parsePlaces(node *yml.Node) ([]*Place, error) {
	var ret []*Place
	add := func(name string, value *yml.Node) error {
		place := &Place{Name: name}
		if value != nil && value.Kind == yaml.MappingNode {
			if err := value.Decode(&place.Options); err != nil {
				return fmt.Errorf("place %v: %w", name, err)
			}
		}
		ret = append(ret, place)
		return nil
	}
	if node.Kind == yaml.MappingNode {
		return ret, node.Pairs(add)
	}
	return ret, node.Items(func(_ int, item *yml.Node) error {
		if item.Kind == yaml.ScalarNode {
			return add(item.Value, nil)
		}
		name := item.Lookup("name")
		if name == nil {
			return fmt.Errorf("line %d: place name was missing", item.Line)
		}
		return add(name.Value, item)
	})
}

type transitionOptions struct {
	Label     string              `yaml:"label,omitempty"`
	IconClass string              `yaml:"iconClass,omitempty"`
	Notes     *model.NotesOptions `yaml:"notes,omitempty"`
}

func parseTransitions(node *yml.Node) ([]*model.Transition, error) {
	var ret []*model.Transition
	add := func(name string, value *yml.Node) error {
		transition, err := parseTransition(name, value)
		if err != nil {
			return fmt.Errorf("transition %v: %w", name, err)
		}
		ret = append(ret, transition)
		return nil
	}
	if node.Kind == yaml.MappingNode {
		return ret, node.Pairs(add)
	}
	return ret, node.Items(func(_ int, item *yml.Node) error {
		name := item.Lookup("name")
		if name == nil {
			return fmt.Errorf("line %d: transition name was missing", item.Line)
		}
		return add(name.Value, item)
	})
}

func parseTransition(name string, node *yml.Node) (*model.Transition, error) {
	ret := &model.Transition{Name: name}
	err := node.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch yml.Key(key) {
		case "name":
		case "from":
			ret.From, err = value.Strings()
		case "to":
			ret.To, err = value.Strings()
		case "guard":
			ret.Guard = value.Value
		case "label":
			ret.Label = value.Value
		case "iconclass":
			ret.IconClass = value.Value
		case "notes":
			ret.Notes = &model.NotesOptions{}
			err = value.Decode(ret.Notes)
		case "options":
			options := &transitionOptions{}
			if err = value.Decode(options); err == nil {
				ret.Label, ret.IconClass, ret.Notes = options.Label, options.IconClass, options.Notes
			}
		default:
			err = fmt.Errorf("unsupported key %v at line %d", key, value.Line)
		}
		return err
	})
	return ret, err
}

func parseGlobalActions(node *yml.Node) ([]*GlobalAction, error) {
	var ret []*GlobalAction
	err := node.Pairs(func(name string, value *yml.Node) error {
		action := &GlobalAction{Name: name}
		if value.Kind == yaml.MappingNode {
			if err := value.Decode(&action.Options); err != nil {
				return fmt.Errorf("global action %v: %w", name, err)
			}
		}
		ret = append(ret, action)
		return nil
	})
	return ret, err
}

// New creates workflow config loader
func New(metaService *meta.Service) *Service {
	return &Service{meta: metaService}
}
