package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// UninitializedPlace is the sentinel place reported for subjects that were
// never placed into any state of a workflow.
const UninitializedPlace = ""

// Marking represents the set of currently active places with their token count.
type Marking struct {
	places map[string]int
}

// NewMarking creates a marking with one token on each supplied place.
func NewMarking(places ...string) *Marking {
	ret := &Marking{places: make(map[string]int, len(places))}
	for _, place := range places {
		ret.Mark(place)
	}
	return ret
}

// NewMarkingFromTokens creates a marking from a place to token count map;
// entries with non-positive counts are ignored.
func NewMarkingFromTokens(tokens map[string]int) *Marking {
	ret := &Marking{places: make(map[string]int, len(tokens))}
	for place, count := range tokens {
		if count > 0 {
			ret.places[place] = count
		}
	}
	return ret
}

// Mark adds a token to the place
func (m *Marking) Mark(place string) {
	if m.places == nil {
		m.places = make(map[string]int)
	}
	m.places[place]++
}

// Unmark removes a token from the place, the place is deactivated once it has no tokens
func (m *Marking) Unmark(place string) {
	count, ok := m.places[place]
	if !ok {
		return
	}
	if count <= 1 {
		delete(m.places, place)
		return
	}
	m.places[place] = count - 1
}

// Has returns true if the place is active
func (m *Marking) Has(place string) bool {
	if m == nil {
		return false
	}
	_, ok := m.places[place]
	return ok
}

// Tokens returns a copy of the place to token count map
func (m *Marking) Tokens() map[string]int {
	ret := make(map[string]int)
	if m == nil {
		return ret
	}
	for place, count := range m.places {
		ret[place] = count
	}
	return ret
}

// Places returns active place names in lexical order
func (m *Marking) Places() []string {
	if m == nil {
		return nil
	}
	ret := make([]string, 0, len(m.places))
	for place := range m.places {
		ret = append(ret, place)
	}
	sort.Strings(ret)
	return ret
}

// Len returns number of active places
func (m *Marking) Len() int {
	if m == nil {
		return 0
	}
	return len(m.places)
}

// IsEmpty returns true when no place is active
func (m *Marking) IsEmpty() bool {
	return m.Len() == 0
}

// IsUninitialized returns true when the marking carries the sentinel place
func (m *Marking) IsUninitialized() bool {
	return m.Has(UninitializedPlace)
}

// Clone creates a deep copy of the marking
func (m *Marking) Clone() *Marking {
	if m == nil {
		return nil
	}
	return NewMarkingFromTokens(m.places)
}

// Equal returns true if both markings have the same places and token counts
func (m *Marking) Equal(other *Marking) bool {
	if m.Len() != other.Len() {
		return false
	}
	for place, count := range m.Tokens() {
		if other.places[place] != count {
			return false
		}
	}
	return true
}

func (m *Marking) String() string {
	if m == nil {
		return "{}"
	}
	return "{" + strings.Join(m.Places(), ",") + "}"
}

// MarshalJSON encodes the marking as a place to token count object
func (m *Marking) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Tokens())
}

// UnmarshalJSON decodes a place to token count object
func (m *Marking) UnmarshalJSON(data []byte) error {
	var tokens map[string]int
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	*m = *NewMarkingFromTokens(tokens)
	return nil
}
