// Package sharecode encodes input sets into short URL-style parameter
// strings so an assessment can be shared and restored without any storage.
package sharecode

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/readimeter/readimeter/internal/apperrors"
	"github.com/readimeter/readimeter/internal/readiness"
	"github.com/readimeter/readimeter/internal/validation"
)

// param maps one short code onto its input field.
type param struct {
	code  string
	field string
	get   func(readiness.Inputs) int
	set   func(*readiness.Inputs, int)
}

// params lists the six codes in their fixed wire order.
var params = []param{
	{
		code:  "pv",
		field: validation.FieldProcessVolume,
		get:   func(in readiness.Inputs) int { return in.ProcessVolume },
		set:   func(in *readiness.Inputs, v int) { in.ProcessVolume = v },
	},
	{
		code:  "v",
		field: validation.FieldVariance,
		get:   func(in readiness.Inputs) int { return in.Variance },
		set:   func(in *readiness.Inputs, v int) { in.Variance = v },
	},
	{
		code:  "e",
		field: validation.FieldExceptionRate,
		get:   func(in readiness.Inputs) int { return in.ExceptionRate },
		set:   func(in *readiness.Inputs, v int) { in.ExceptionRate = v },
	},
	{
		code:  "dq",
		field: validation.FieldDataQuality,
		get:   func(in readiness.Inputs) int { return in.DataQuality },
		set:   func(in *readiness.Inputs, v int) { in.DataQuality = v },
	},
	{
		code:  "sa",
		field: validation.FieldSystemAccess,
		get:   func(in readiness.Inputs) int { return in.SystemAccess },
		set:   func(in *readiness.Inputs, v int) { in.SystemAccess = v },
	},
	{
		code:  "c",
		field: validation.FieldComplianceSensitivity,
		get:   func(in readiness.Inputs) int { return in.ComplianceSensitivity },
		set:   func(in *readiness.Inputs, v int) { in.ComplianceSensitivity = v },
	},
}

// Encode renders the six inputs as a query string in the fixed parameter
// order, e.g. "pv=1000&v=90&e=10&dq=70&sa=60&c=30".
func Encode(in readiness.Inputs) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.code)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(p.get(in)))
	}
	return b.String()
}

// Decode parses a share code and overlays the values it carries onto base,
// so partial codes restore only what they name. Unknown parameters are
// ignored; a leading "?" is tolerated. Values run through the validation
// package and invalid ones fail the whole decode.
func Decode(code string, base readiness.Inputs) (readiness.Inputs, error) {
	code = strings.TrimPrefix(strings.TrimSpace(code), "?")

	values, err := url.ParseQuery(code)
	if err != nil {
		return base, apperrors.NewEncodingError("malformed share code", err)
	}

	out := base
	for _, p := range params {
		raw := values.Get(p.code)
		if raw == "" {
			continue
		}
		v, err := validation.ParseField(p.field, raw)
		if err != nil {
			return base, err
		}
		p.set(&out, v)
	}
	return out, nil
}
