package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/readimeter/readimeter/internal/apperrors"
	"github.com/readimeter/readimeter/internal/readiness"
)

// Kind classifies why a raw value was rejected.
type Kind string

const (
	KindNotANumber   Kind = "not_a_number"
	KindBelowMinimum Kind = "below_minimum"
	KindAboveMaximum Kind = "above_maximum"
)

// Field names accepted by ParseField and ClampField. They double as the
// snake_case keys used in share codes, exports, and stored rows.
const (
	FieldProcessVolume         = "process_volume"
	FieldVariance              = "variance"
	FieldExceptionRate         = "exception_rate"
	FieldDataQuality           = "data_quality"
	FieldSystemAccess          = "system_access"
	FieldComplianceSensitivity = "compliance_sensitivity"
)

// Constraint bounds one input field. Max is +Inf for unbounded fields.
type Constraint struct {
	Field string
	Min   float64
	Max   float64
}

// constraints is the full constraint table: volume is non-negative and
// unbounded above, the five percentage fields live in [0,100].
var constraints = map[string]Constraint{
	FieldProcessVolume:         {Field: FieldProcessVolume, Min: 0, Max: math.Inf(1)},
	FieldVariance:              {Field: FieldVariance, Min: 0, Max: 100},
	FieldExceptionRate:         {Field: FieldExceptionRate, Min: 0, Max: 100},
	FieldDataQuality:           {Field: FieldDataQuality, Min: 0, Max: 100},
	FieldSystemAccess:          {Field: FieldSystemAccess, Min: 0, Max: 100},
	FieldComplianceSensitivity: {Field: FieldComplianceSensitivity, Min: 0, Max: 100},
}

// FieldConstraint returns the constraint for a field name.
func FieldConstraint(field string) (Constraint, bool) {
	c, ok := constraints[field]
	return c, ok
}

// FieldError reports one rejected raw value. It wraps an AppError so callers
// can log it like any other validation failure while still reading the kind.
type FieldError struct {
	Field string
	Kind  Kind
	Value string
	app   *apperrors.AppError
}

func (e *FieldError) Error() string { return e.app.Error() }

func (e *FieldError) Unwrap() error { return e.app }

func newFieldError(field string, kind Kind, value, message string) *FieldError {
	return &FieldError{
		Field: field,
		Kind:  kind,
		Value: value,
		app: apperrors.NewValidationError(message, map[string]string{
			"field": field,
			"kind":  string(kind),
			"value": value,
		}),
	}
}

// KindOf extracts the rejection kind from an error, or "" when the error did
// not come from this package.
func KindOf(err error) Kind {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// ParseField parses a raw string into an evaluator-ready integer for the
// named field, rejecting non-numeric and out-of-range values. Accepted values
// are rounded half away from zero.
func ParseField(field, raw string) (int, error) {
	c, ok := constraints[field]
	if !ok {
		return 0, apperrors.NewInternalError(fmt.Sprintf("unknown input field %q", field), nil)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newFieldError(field, KindNotANumber, raw,
			fmt.Sprintf("%s is not a number", field))
	}
	if v < c.Min {
		return 0, newFieldError(field, KindBelowMinimum, raw,
			fmt.Sprintf("%s is below the minimum of %g", field, c.Min))
	}
	if v > c.Max {
		return 0, newFieldError(field, KindAboveMaximum, raw,
			fmt.Sprintf("%s is above the maximum of %g", field, c.Max))
	}

	return int(math.Round(v)), nil
}

// ClampField normalizes a numeric value for the named field instead of
// rejecting it: out-of-range values are clamped to the constraint bounds and
// the result is rounded half away from zero. Unknown fields clamp to zero.
func ClampField(field string, v float64) int {
	c, ok := constraints[field]
	if !ok {
		return 0
	}

	if math.IsNaN(v) {
		v = c.Min
	}
	if v < c.Min {
		v = c.Min
	}
	if v > c.Max {
		v = c.Max
	}
	return int(math.Round(v))
}

// ValidateInputs checks that an already-assembled Inputs record respects the
// constraint table, returning the first violation found in field order.
func ValidateInputs(in readiness.Inputs) error {
	checks := []struct {
		field string
		value int
	}{
		{FieldProcessVolume, in.ProcessVolume},
		{FieldVariance, in.Variance},
		{FieldExceptionRate, in.ExceptionRate},
		{FieldDataQuality, in.DataQuality},
		{FieldSystemAccess, in.SystemAccess},
		{FieldComplianceSensitivity, in.ComplianceSensitivity},
	}

	for _, ch := range checks {
		c := constraints[ch.field]
		v := float64(ch.value)
		if v < c.Min {
			return newFieldError(ch.field, KindBelowMinimum, strconv.Itoa(ch.value),
				fmt.Sprintf("%s is below the minimum of %g", ch.field, c.Min))
		}
		if v > c.Max {
			return newFieldError(ch.field, KindAboveMaximum, strconv.Itoa(ch.value),
				fmt.Sprintf("%s is above the maximum of %g", ch.field, c.Max))
		}
	}
	return nil
}
