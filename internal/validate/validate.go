// Package validate collects user-correctable input errors keyed by field.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors not tied to a single field.
const NonFieldErrors = "non_field_errors"

// MsgInvalidNumber is reported for NaN and infinite values.
const MsgInvalidNumber = "A valid number is required."

// Errors maps a field name to its error messages. A nil or empty Errors
// means the input is valid.
type Errors map[string][]string

// Add records a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Addf records a formatted message for field.
func (e Errors) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Merge copies every message from other into e.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Has reports whether field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Fields returns the fields with errors in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns e as an error, or nil when it holds no messages.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Error implements error.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// MarshalJSON renders the errors as a field-keyed object.
func (e Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string(e))
}

// Finite rejects NaN and infinities, which compare false against any
// bound. It reports whether v is usable.
func (e Errors) Finite(field string, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.Add(field, MsgInvalidNumber)
		return false
	}
	return true
}

// Range checks lo <= v <= hi, recording the standard messages.
func (e Errors) Range(field string, v, lo, hi float64) {
	if !e.Finite(field, v) {
		return
	}
	if v < lo {
		e.Addf(field, "Ensure this value is greater than or equal to %s.", formatNumber(lo))
	}
	if v > hi {
		e.Addf(field, "Ensure this value is less than or equal to %s.", formatNumber(hi))
	}
}

// Min checks v >= lo.
func (e Errors) Min(field string, v, lo float64) {
	if e.Finite(field, v) && v < lo {
		e.Addf(field, "Ensure this value is greater than or equal to %s.", formatNumber(lo))
	}
}

// Max checks v <= hi.
func (e Errors) Max(field string, v, hi float64) {
	if e.Finite(field, v) && v > hi {
		e.Addf(field, "Ensure this value is less than or equal to %s.", formatNumber(hi))
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
