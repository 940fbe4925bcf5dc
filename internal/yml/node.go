// Package yml walks yaml.v3 nodes preserving mapping order.
package yml

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node represents yaml node
type Node yaml.Node

// Root returns the document content node
func Root(node *yaml.Node) *Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return (*Node)(node.Content[0])
	}
	return (*Node)(node)
}

// Key normalises mapping key for comparison: lower case without '_' and '-'
func Key(key string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
}

// Lookup returns mapping value for the key (normalised comparison) or nil
func (n *Node) Lookup(name string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	name = Key(name)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if Key(n.Content[i].Value) == name {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Items iterates sequence items
func (n *Node) Items(callback func(index int, node *Node) error) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected sequence", n.Line)
	}
	for i, item := range n.Content {
		if err := callback(i, (*Node)(item)); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates mapping pairs in document order
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// Decode decodes node into target
func (n *Node) Decode(target interface{}) error {
	return (*yaml.Node)(n).Decode(target)
}

// Strings returns scalar or sequence of scalars as string slice
func (n *Node) Strings() ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		ret := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: expected scalar", item.Line)
			}
			ret = append(ret, item.Value)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("line %d: expected scalar or sequence", n.Line)
}

// Int returns scalar int value
func (n *Node) Int() (int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: expected scalar", n.Line)
	}
	ret, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid int %q", n.Line, n.Value)
	}
	return ret, nil
}

// Interface returns node as plain go value
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!bool":
			return strings.ToLower(n.Value) == "true"
		case "!!null":
			return nil
		case "!!float":
			f, _ := strconv.ParseFloat(n.Value, 64)
			return f
		case "!!int":
			i, _ := strconv.Atoi(n.Value)
			return i
		}
		return n.Value
	case yaml.MappingNode:
		ret := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			ret[n.Content[i].Value] = (*Node)(n.Content[i+1]).Interface()
		}
		return ret
	case yaml.SequenceNode:
		ret := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			ret = append(ret, (*Node)(item).Interface())
		}
		return ret
	case yaml.AliasNode:
		if n.Alias != nil {
			return (*Node)(n.Alias).Interface()
		}
	}
	return nil
}
