package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNode(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
initial_markings: draft
places:
  zeta: {}
  alpha: {}
priority: 3
meta:
  enabled: true
  ratio: 0.5
  tags: [a, b]
`), &doc))
	root := Root(&doc)

	initial, err := root.Lookup("initialMarkings").Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, initial)

	var keys []string
	require.NoError(t, root.Lookup("places").Pairs(func(key string, _ *Node) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"zeta", "alpha"}, keys)

	priority, err := root.Lookup("Priority").Int()
	require.NoError(t, err)
	assert.Equal(t, 3, priority)

	assert.Equal(t, map[string]interface{}{"enabled": true, "ratio": 0.5, "tags": []interface{}{"a", "b"}}, root.Lookup("meta").Interface())
	assert.Nil(t, root.Lookup("missing"))
	assert.Error(t, root.Lookup("places").Items(func(int, *Node) error { return nil }))
}
