package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readimeter/readimeter/internal/readiness"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		raw      string
		expected int
		kind     Kind
	}{
		{name: "parses integer", field: FieldVariance, raw: "42", expected: 42},
		{name: "rounds half up", field: FieldVariance, raw: "42.5", expected: 43},
		{name: "rounds down below half", field: FieldVariance, raw: "42.4", expected: 42},
		{name: "accepts boundary minimum", field: FieldVariance, raw: "0", expected: 0},
		{name: "accepts boundary maximum", field: FieldVariance, raw: "100", expected: 100},
		{name: "volume has no upper bound", field: FieldProcessVolume, raw: "1000000", expected: 1000000},
		{name: "rejects non-numeric", field: FieldDataQuality, raw: "lots", kind: KindNotANumber},
		{name: "rejects empty string", field: FieldDataQuality, raw: "", kind: KindNotANumber},
		{name: "rejects below minimum", field: FieldExceptionRate, raw: "-1", kind: KindBelowMinimum},
		{name: "rejects above maximum", field: FieldExceptionRate, raw: "101", kind: KindAboveMaximum},
		{name: "rejects negative volume", field: FieldProcessVolume, raw: "-10", kind: KindBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseField(tt.field, tt.raw)
			if tt.kind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParseFieldUnknownField(t *testing.T) {
	_, err := ParseField("velocity", "10")
	require.Error(t, err)
	assert.Equal(t, Kind(""), KindOf(err))
}

func TestClampField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    float64
		expected int
	}{
		{name: "in range passes through", field: FieldSystemAccess, value: 60, expected: 60},
		{name: "clamps below minimum", field: FieldSystemAccess, value: -20, expected: 0},
		{name: "clamps above maximum", field: FieldSystemAccess, value: 140, expected: 100},
		{name: "rounds half away from zero", field: FieldSystemAccess, value: 59.5, expected: 60},
		{name: "volume clamps negatives only", field: FieldProcessVolume, value: 123456.7, expected: 123457},
		{name: "unknown field clamps to zero", field: "velocity", value: 55, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampField(tt.field, tt.value))
		})
	}
}

func TestValidateInputs(t *testing.T) {
	valid := readiness.Inputs{
		ProcessVolume:         1000,
		Variance:              90,
		ExceptionRate:         10,
		DataQuality:           70,
		SystemAccess:          60,
		ComplianceSensitivity: 30,
	}
	require.NoError(t, ValidateInputs(valid))

	negative := valid
	negative.ProcessVolume = -1
	err := ValidateInputs(negative)
	require.Error(t, err)
	assert.Equal(t, KindBelowMinimum, KindOf(err))

	over := valid
	over.ComplianceSensitivity = 101
	err = ValidateInputs(over)
	require.Error(t, err)
	assert.Equal(t, KindAboveMaximum, KindOf(err))
}

func TestFieldConstraint(t *testing.T) {
	c, ok := FieldConstraint(FieldProcessVolume)
	require.True(t, ok)
	assert.Equal(t, 0.0, c.Min)

	_, ok = FieldConstraint("velocity")
	assert.False(t, ok)
}
