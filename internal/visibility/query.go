package visibility

import (
	"errors"
	"time"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/target"
	"github.com/litescript/ls-skywindow/internal/telescope"
	"github.com/litescript/ls-skywindow/internal/validate"
)

// Validation messages.
const (
	MsgRequired      = "This field is required."
	MsgEndAfterStart = "The end datetime must be greater than the start datetime"
)

// Limits are the per-query observing constraints.
type Limits struct {
	MaxAirmass       float64
	MaxLunarPhase    float64
	MinLunarDistance float64 // degrees
}

// DefaultLimits returns the limits applied to omitted query fields.
func DefaultLimits() Limits {
	return Limits{MaxAirmass: 2.0, MaxLunarPhase: 1.0, MinLunarDistance: 0.0}
}

// Constraints converts the limits for the solver, at nautical twilight.
func (l Limits) Constraints() astro.Constraints {
	return astro.Constraints{
		MaxAirmass:          l.MaxAirmass,
		MaxLunarPhase:       l.MaxLunarPhase,
		MinLunarDistanceDeg: l.MinLunarDistance,
		TwilightDeg:         astro.NauticalTwilight,
	}
}

// Query is a raw visibility or airmass request. Nil pointers and zero
// times mean the field was not supplied.
type Query struct {
	Start      time.Time `json:"start" yaml:"start"`
	End        time.Time `json:"end" yaml:"end"`
	Telescopes []string  `json:"telescopes,omitempty" yaml:"telescopes,omitempty"`

	MaxAirmass       *float64 `json:"max_airmass,omitempty" yaml:"max_airmass,omitempty"`
	MaxLunarPhase    *float64 `json:"max_lunar_phase,omitempty" yaml:"max_lunar_phase,omitempty"`
	MinLunarDistance *float64 `json:"min_lunar_distance,omitempty" yaml:"min_lunar_distance,omitempty"`

	target.Fields `yaml:",inline"`
}

// Request is a validated query with every reference resolved.
type Request struct {
	Start      time.Time
	End        time.Time
	Telescopes []telescope.Telescope
	Limits     Limits
	Target     target.Descriptor
}

// Validate checks the query and resolves it against reg. Field-level
// problems are all reported together; the window ordering and target
// classification are only checked once every field is individually valid.
func (q Query) Validate(reg *telescope.Registry, defaults Limits) (Request, validate.Errors) {
	errs := validate.Errors{}

	if q.Start.IsZero() {
		errs.Add("start", MsgRequired)
	}
	if q.End.IsZero() {
		errs.Add("end", MsgRequired)
	}

	limits := defaults
	if q.MaxAirmass != nil {
		limits.MaxAirmass = *q.MaxAirmass
		errs.Range("max_airmass", limits.MaxAirmass, 1, 25)
	}
	if q.MaxLunarPhase != nil {
		limits.MaxLunarPhase = *q.MaxLunarPhase
		errs.Range("max_lunar_phase", limits.MaxLunarPhase, 0, 1)
	}
	if q.MinLunarDistance != nil {
		limits.MinLunarDistance = *q.MinLunarDistance
		errs.Range("min_lunar_distance", limits.MinLunarDistance, 0, 180)
	}
	errs.Merge(q.Fields.ValidateRanges())

	tels := selectTelescopes(reg, q.Telescopes, errs)

	if len(errs) > 0 {
		return Request{}, errs
	}

	if !q.End.After(q.Start) {
		errs.Add("end", MsgEndAfterStart)
		return Request{}, errs
	}

	desc, cerrs := target.Classify(q.Fields)
	if len(cerrs) > 0 {
		return Request{}, cerrs
	}

	return Request{
		Start:      q.Start.UTC(),
		End:        q.End.UTC(),
		Telescopes: tels,
		Limits:     limits,
		Target:     desc,
	}, nil
}

// Window is a validated [Start, End) range for dark-interval queries.
type Window struct {
	Start      time.Time
	End        time.Time
	Telescopes []telescope.Telescope
}

// ValidateWindow checks a dark-interval request: both bounds required,
// end after start, known telescopes (all when ids is empty).
func ValidateWindow(reg *telescope.Registry, start, end time.Time, ids []string) (Window, validate.Errors) {
	errs := validate.Errors{}
	if start.IsZero() {
		errs.Add("start", MsgRequired)
	}
	if end.IsZero() {
		errs.Add("end", MsgRequired)
	}
	tels := selectTelescopes(reg, ids, errs)
	if len(errs) > 0 {
		return Window{}, errs
	}
	if !end.After(start) {
		errs.Add("end", MsgEndAfterStart)
		return Window{}, errs
	}
	return Window{Start: start.UTC(), End: end.UTC(), Telescopes: tels}, nil
}

func selectTelescopes(reg *telescope.Registry, ids []string, errs validate.Errors) []telescope.Telescope {
	tels, err := reg.Select(ids)
	if err == nil {
		return tels
	}
	var unknown *telescope.UnknownError
	if !errors.As(err, &unknown) {
		errs.Add("telescopes", err.Error())
		return nil
	}
	for _, id := range unknown.IDs {
		errs.Addf("telescopes", "Invalid pk %q - object does not exist.", id)
	}
	return nil
}
