package target

import (
	"fmt"

	"github.com/litescript/ls-skywindow/internal/validate"
)

// MsgNoTarget is reported when nothing resembling a target was submitted.
const MsgNoTarget = "Must submit a valid target using either ra/dec, or orbital elements"

// variant is an orbital parameterization with its required fields.
type variant struct {
	kind   Kind
	fields []field
}

// Tie-break priority for incomplete submissions.
var incompletePriority = []variant{
	{KindMinorPlanet, minorPlanetFields},
	{KindComet, cometFields},
	{KindMajorPlanet, majorPlanetFields},
}

// Complete sets are matched most specific first: every major-planet set
// is also a minor-planet set.
var completePriority = []variant{
	{KindMajorPlanet, majorPlanetFields},
	{KindMinorPlanet, minorPlanetFields},
	{KindComet, cometFields},
}

// Classify selects the target parameterization the fields describe.
//
// Any ra or dec makes the target ICRS. Otherwise a complete orbital
// element set is used as is; an incomplete one is matched to the variant
// needing the fewest additional fields (ties broken minor planet, comet,
// major planet) and reported field by field. When no target field at all
// was supplied a single non-field error is returned.
func Classify(f Fields) (Descriptor, validate.Errors) {
	if f.RA != nil || f.Dec != nil {
		return classifyICRS(f)
	}

	for _, v := range completePriority {
		if len(missing(f, v.fields)) == 0 {
			return orbital(f, v.kind), nil
		}
	}

	var (
		best     *variant
		bestMiss []string
	)
	for i := range incompletePriority {
		v := &incompletePriority[i]
		m := missing(f, v.fields)
		if len(m) == len(v.fields) {
			continue
		}
		if best == nil || len(m) < len(bestMiss) {
			best, bestMiss = v, m
		}
	}

	errs := validate.Errors{}
	if best == nil {
		errs.Add(validate.NonFieldErrors, MsgNoTarget)
		return nil, errs
	}
	for _, name := range bestMiss {
		errs.Addf(name, "This field is required for %s targets", best.kind)
	}
	return nil, errs
}

func classifyICRS(f Fields) (Descriptor, validate.Errors) {
	for _, req := range []struct {
		name string
		v    *float64
	}{{"ra", f.RA}, {"dec", f.Dec}} {
		if req.v == nil {
			errs := validate.Errors{}
			errs.Addf(req.name, "The field %q is required for ICRS targets", req.name)
			return nil, errs
		}
	}

	d := ICRS{
		RADeg:  *f.RA,
		DecDeg: *f.Dec,
		Epoch:  2000.0,
	}
	// A zero proper motion is treated as absent.
	if f.ProperMotionRA != nil && *f.ProperMotionRA != 0 {
		d.ProperMotionRAMas = Float(*f.ProperMotionRA)
	}
	if f.ProperMotionDec != nil && *f.ProperMotionDec != 0 {
		d.ProperMotionDecMas = Float(*f.ProperMotionDec)
	}
	if f.Parallax != nil {
		d.ParallaxMas = *f.Parallax
	}
	if f.Epoch != nil {
		d.Epoch = *f.Epoch
	}
	return d, nil
}

func missing(f Fields, required []field) []string {
	var out []string
	for _, fld := range required {
		if fld.get(&f) == nil {
			out = append(out, fld.name)
		}
	}
	return out
}

// orbital builds the descriptor for a complete element set.
func orbital(f Fields, kind Kind) Descriptor {
	mp := MinorPlanet{
		EpochOfElements:          val(f.EpochOfElements),
		OrbitalInclination:       val(f.OrbitalInclination),
		LongitudeOfAscendingNode: val(f.LongitudeOfAscendingNode),
		ArgumentOfPerihelion:     val(f.ArgumentOfPerihelion),
		MeanDistance:             val(f.MeanDistance),
		Eccentricity:             val(f.Eccentricity),
		MeanAnomaly:              val(f.MeanAnomaly),
	}

	switch kind {
	case KindMinorPlanet:
		return mp
	case KindMajorPlanet:
		return MajorPlanet{MinorPlanet: mp, DailyMotion: val(f.DailyMotion)}
	case KindComet:
		return Comet{
			EpochOfElements:          mp.EpochOfElements,
			OrbitalInclination:       mp.OrbitalInclination,
			LongitudeOfAscendingNode: mp.LongitudeOfAscendingNode,
			ArgumentOfPerihelion:     mp.ArgumentOfPerihelion,
			PerihelionDistance:       val(f.PerihelionDistance),
			Eccentricity:             mp.Eccentricity,
			EpochOfPerihelion:        val(f.EpochOfPerihelion),
		}
	default:
		panic(fmt.Sprintf("target: no orbital variant %q", kind))
	}
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
