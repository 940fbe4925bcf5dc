package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssignments(t *testing.T) {
	testCases := []struct {
		description string
		input       []string
		expect      map[string]interface{}
		expectErr   bool
	}{
		{description: "empty", input: nil, expect: nil},
		{description: "typed values", input: []string{"count=3", "ratio=0.5", "approved=true", "reviewer=kim"},
			expect: map[string]interface{}{"count": 3, "ratio": 0.5, "approved": true, "reviewer": "kim"}},
		{description: "value with equals sign", input: []string{"expr=a=b"}, expect: map[string]interface{}{"expr": "a=b"}},
		{description: "missing separator", input: []string{"reviewer"}, expectErr: true},
		{description: "missing key", input: []string{"=kim"}, expectErr: true},
	}
	for _, testCase := range testCases {
		actual, err := parseAssignments(testCase.input)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Name", "Priority"}, [][]string{{"review", "10"}, {"translation"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "translation")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "a=1, b=x", formatValue(map[string]interface{}{"b": "x", "a": 1}))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "true", formatValue(true))
}
