package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		description string
		options     Options
		expectErr   bool
		expectJSON  bool
	}{
		{description: "default text", options: Options{}},
		{description: "json", options: Options{Format: "JSON", Level: "debug"}, expectJSON: true},
		{description: "unsupported format", options: Options{Format: "xml"}, expectErr: true},
	}
	for _, testCase := range testCases {
		buffer := &bytes.Buffer{}
		testCase.options.Output = buffer
		logger, err := New(testCase.options)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		logger.Info("applied", "workflow", "review")
		if testCase.expectJSON {
			record := map[string]interface{}{}
			require.NoError(t, json.Unmarshal(buffer.Bytes(), &record), testCase.description)
			assert.Equal(t, "review", record["workflow"], testCase.description)
			continue
		}
		assert.Contains(t, buffer.String(), "workflow=review", testCase.description)
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		description string
		level       string
		expect      slog.Level
	}{
		{description: "empty", level: "", expect: slog.LevelInfo},
		{description: "debug", level: " DEBUG ", expect: slog.LevelDebug},
		{description: "warning alias", level: "warning", expect: slog.LevelWarn},
		{description: "error", level: "error", expect: slog.LevelError},
		{description: "unknown", level: "verbose", expect: slog.LevelInfo},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, ParseLevel(testCase.level), testCase.description)
	}
}
