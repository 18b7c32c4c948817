package severity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected string
	}{
		{"info level", SeverityInfo, "info"},
		{"warning level", SeverityWarning, "warning"},
		{"error level", SeverityError, "error"},

		// Edge cases: Invalid severity values
		{"unknown negative", Severity(-1), "unknown"},
		{"unknown large value", Severity(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, SeverityInfo, SeverityWarning)
	assert.Less(t, SeverityWarning, SeverityError)
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Severity{"level": SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"warning"}`, string(data))

	var decoded map[string]Severity
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, SeverityWarning, decoded["level"])

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}
