// Package target turns loosely specified target fields into one of the
// closed set of target descriptors and builds ephemeris targets from them.
package target

import "github.com/litescript/ls-skywindow/internal/validate"

// Fields is the flat, partially filled set of target parameters a caller
// submits. A nil pointer means the field was not supplied.
type Fields struct {
	// ICRS: degrees, proper motions in mas/yr (the RA component includes
	// cos(dec)), parallax in mas, epoch as a Julian year.
	RA              *float64 `json:"ra,omitempty" yaml:"ra,omitempty"`
	Dec             *float64 `json:"dec,omitempty" yaml:"dec,omitempty"`
	ProperMotionRA  *float64 `json:"proper_motion_ra,omitempty" yaml:"proper_motion_ra,omitempty"`
	ProperMotionDec *float64 `json:"proper_motion_dec,omitempty" yaml:"proper_motion_dec,omitempty"`
	Parallax        *float64 `json:"parallax,omitempty" yaml:"parallax,omitempty"`
	Epoch           *float64 `json:"epoch,omitempty" yaml:"epoch,omitempty"`

	// Orbital elements: angles in degrees, distances in AU, epochs in MJD.
	EpochOfElements          *float64 `json:"epoch_of_elements,omitempty" yaml:"epoch_of_elements,omitempty"`
	EpochOfPerihelion        *float64 `json:"epoch_of_perihelion,omitempty" yaml:"epoch_of_perihelion,omitempty"`
	OrbitalInclination       *float64 `json:"orbital_inclination,omitempty" yaml:"orbital_inclination,omitempty"`
	LongitudeOfAscendingNode *float64 `json:"longitude_of_ascending_node,omitempty" yaml:"longitude_of_ascending_node,omitempty"`
	LongitudeOfPerihelion    *float64 `json:"longitude_of_perihelion,omitempty" yaml:"longitude_of_perihelion,omitempty"`
	ArgumentOfPerihelion     *float64 `json:"argument_of_perihelion,omitempty" yaml:"argument_of_perihelion,omitempty"`
	MeanDistance             *float64 `json:"mean_distance,omitempty" yaml:"mean_distance,omitempty"`
	PerihelionDistance       *float64 `json:"perihelion_distance,omitempty" yaml:"perihelion_distance,omitempty"`
	Eccentricity             *float64 `json:"eccentricity,omitempty" yaml:"eccentricity,omitempty"`
	MeanAnomaly              *float64 `json:"mean_anomaly,omitempty" yaml:"mean_anomaly,omitempty"`
	DailyMotion              *float64 `json:"daily_motion,omitempty" yaml:"daily_motion,omitempty"`
}

// Float returns a pointer to v, for building Fields literals.
func Float(v float64) *float64 {
	return &v
}

// field names a Fields member by its wire name.
type field struct {
	name string
	get  func(*Fields) *float64
}

var (
	fEpochOfElements   = field{"epoch_of_elements", func(f *Fields) *float64 { return f.EpochOfElements }}
	fEpochOfPerihelion = field{"epoch_of_perihelion", func(f *Fields) *float64 { return f.EpochOfPerihelion }}
	fInclination       = field{"orbital_inclination", func(f *Fields) *float64 { return f.OrbitalInclination }}
	fNode              = field{"longitude_of_ascending_node", func(f *Fields) *float64 { return f.LongitudeOfAscendingNode }}
	fArgPerihelion     = field{"argument_of_perihelion", func(f *Fields) *float64 { return f.ArgumentOfPerihelion }}
	fMeanDistance      = field{"mean_distance", func(f *Fields) *float64 { return f.MeanDistance }}
	fPerihelionDist    = field{"perihelion_distance", func(f *Fields) *float64 { return f.PerihelionDistance }}
	fEccentricity      = field{"eccentricity", func(f *Fields) *float64 { return f.Eccentricity }}
	fMeanAnomaly       = field{"mean_anomaly", func(f *Fields) *float64 { return f.MeanAnomaly }}
	fDailyMotion       = field{"daily_motion", func(f *Fields) *float64 { return f.DailyMotion }}
)

// Required fields per orbital parameterization, in reporting order.
var (
	minorPlanetFields = []field{fEpochOfElements, fInclination, fNode, fArgPerihelion, fMeanDistance, fEccentricity, fMeanAnomaly}
	cometFields       = []field{fEpochOfElements, fInclination, fNode, fArgPerihelion, fPerihelionDist, fEccentricity, fEpochOfPerihelion}
	majorPlanetFields = []field{fEpochOfElements, fInclination, fNode, fArgPerihelion, fMeanDistance, fEccentricity, fMeanAnomaly, fDailyMotion}
)

// ValidateRanges checks every supplied field against its allowed range.
// Absent fields are not checked.
func (f *Fields) ValidateRanges() validate.Errors {
	errs := validate.Errors{}

	check := func(name string, v *float64, lo, hi float64) {
		if v != nil {
			errs.Range(name, *v, lo, hi)
		}
	}
	check("ra", f.RA, 0, 360)
	check("dec", f.Dec, -90, 90)
	check("proper_motion_ra", f.ProperMotionRA, -20000, 20000)
	check("proper_motion_dec", f.ProperMotionDec, -20000, 20000)
	check("parallax", f.Parallax, -2000, 2000)
	if f.Epoch != nil {
		errs.Max("epoch", *f.Epoch, 2100)
	}
	check("epoch_of_elements", f.EpochOfElements, 10000, 100000)
	check("epoch_of_perihelion", f.EpochOfPerihelion, 361, 240000)
	check("orbital_inclination", f.OrbitalInclination, 0, 180)
	check("longitude_of_ascending_node", f.LongitudeOfAscendingNode, 0, 360)
	check("longitude_of_perihelion", f.LongitudeOfPerihelion, 0, 360)
	check("argument_of_perihelion", f.ArgumentOfPerihelion, 0, 360)
	check("mean_anomaly", f.MeanAnomaly, 0, 360)
	if f.Eccentricity != nil {
		errs.Min("eccentricity", *f.Eccentricity, 0)
	}
	for _, fl := range []field{fMeanDistance, fPerihelionDist, fDailyMotion} {
		if v := fl.get(f); v != nil {
			errs.Finite(fl.name, *v)
		}
	}
	return errs
}
