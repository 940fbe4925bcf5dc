package translation

import (
	"time"

	"golang.org/x/text/language"
)

// Translation represents per language values of a key
type Translation struct {
	Key        string            `json:"key"`
	Values     map[string]string `json:"values"`
	CreatedAt  time.Time         `json:"createdAt"`
	ModifiedAt time.Time         `json:"modifiedAt"`

	fallback string
}

// Translation returns value for the language, falling back to its base
// language (de-AT to de) and, when requested on lookup, to the key.
func (t *Translation) Translation(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		if value := t.Values[lang]; value != "" {
			return value
		}
		return t.fallback
	}
	if value := t.Values[tag.String()]; value != "" {
		return value
	}
	if base, confidence := tag.Base(); confidence != language.No {
		if value := t.Values[base.String()]; value != "" {
			return value
		}
	}
	return t.fallback
}

// Set sets value for the language
func (t *Translation) Set(lang, value string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return err
	}
	if t.Values == nil {
		t.Values = map[string]string{}
	}
	t.Values[tag.String()] = value
	return nil
}
