package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestStatusFromChange verifies that status is a deterministic function
// of the signed change value.
func TestStatusFromChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		change   string
		expected Status
	}{
		{"positive change rises", "120", StatusRising},
		{"small positive change rises", "0.01", StatusRising},
		{"negative change falls", "-5", StatusFalling},
		{"zero change is steady", "0", StatusSteady},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StatusFromChange(decimal.RequireFromString(tt.change)))
		})
	}
}

// TestStatusFromChange_ZeroValue verifies that an absent change (decimal
// zero value) maps to STEADY.
func TestStatusFromChange_ZeroValue(t *testing.T) {
	t.Parallel()

	var change decimal.Decimal
	assert.Equal(t, StatusSteady, StatusFromChange(change))
}

// TestParseStatus verifies provider direction strings are normalized and
// unknown values degrade to STEADY.
func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected Status
	}{
		{"RISING", StatusRising},
		{"FALLING", StatusFalling},
		{"STEADY", StatusSteady},
		{"", StatusSteady},
		{"UPPER_LIMIT", StatusSteady},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseStatus(tt.in), "input %q", tt.in)
	}
}
