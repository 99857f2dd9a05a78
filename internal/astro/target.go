package astro

import (
	"fmt"
	"time"

	"github.com/soniakeys/unit"
)

// Target is anything the visibility solver can point at.
type Target interface {
	// Position returns the geocentric (or topocentric, where the target
	// model accounts for it) RA/Dec of date at t.
	Position(t time.Time) (SkyCoord, error)

	// Sidereal reports whether the target is fixed on the sky apart from
	// slow proper motion. Non-sidereal targets are sampled rather than
	// solved continuously.
	Sidereal() bool
}

// ICRSTarget is a catalog position with optional space motion.
type ICRSTarget struct {
	RA  unit.Angle
	Dec unit.Angle

	// Proper motion per Julian year in coordinate angle (the RA component
	// is not scaled by cos Dec). Nil means no proper motion.
	PMRA  *unit.Angle
	PMDec *unit.Angle

	Parallax unit.Angle
	Epoch    float64 // Julian epoch year
}

// NewICRSTarget returns a fixed target at the given coordinates, epoch J2000.
func NewICRSTarget(ra, dec unit.Angle) *ICRSTarget {
	return &ICRSTarget{RA: ra, Dec: dec, Epoch: 2000.0}
}

// Sidereal implements Target.
func (s *ICRSTarget) Sidereal() bool { return true }

// Position implements Target.
func (s *ICRSTarget) Position(t time.Time) (SkyCoord, error) {
	jd := julianDate(t)
	years := (jd - JulianEpochToJD(s.Epoch)) / daysPerJulianYear

	ra, dec := s.RA, s.Dec
	if s.PMRA != nil {
		ra += *s.PMRA * unit.Angle(years)
	}
	if s.PMDec != nil {
		dec += *s.PMDec * unit.Angle(years)
	}

	u := unitVector(ra, dec)
	if s.Parallax != 0 {
		// Annual parallax displaces the star toward the Sun's direction
		// as seen from the Earth.
		sun := SunVector(t)
		p := s.Parallax.Rad()
		u = u.Add(sun.Sub(u.Scale(sun.Dot(u))).Scale(p)).Normalized()
	}

	raDeg, decDeg := sphericalDeg(u)
	raDeg, decDeg = Precess(raDeg, decDeg, jdJ2000, jd)
	return SkyCoord{RAdeg: raDeg, DecDeg: decDeg}, nil
}

// OrbitKind distinguishes the parameterizations of an orbital target.
type OrbitKind int

const (
	MinorPlanet OrbitKind = iota
	Comet
	MajorPlanet
)

func (k OrbitKind) String() string {
	switch k {
	case MinorPlanet:
		return "minor planet"
	case Comet:
		return "comet"
	case MajorPlanet:
		return "major planet"
	default:
		return fmt.Sprintf("OrbitKind(%d)", int(k))
	}
}

// OrbitTarget is a solar-system body described by osculating elements.
type OrbitTarget struct {
	Kind     OrbitKind
	Elements Elements
}

// NewMinorPlanetTarget returns a target for MPC minor-planet elements
// (mean distance and mean anomaly at epoch).
func NewMinorPlanetTarget(el Elements) *OrbitTarget {
	el.DailyMotionDeg = 0
	return &OrbitTarget{Kind: MinorPlanet, Elements: el}
}

// NewCometTarget returns a target for MPC comet elements (perihelion
// distance and time of perihelion).
func NewCometTarget(el Elements) *OrbitTarget {
	return &OrbitTarget{Kind: Comet, Elements: el}
}

// NewMajorPlanetTarget returns a target for JPL major-planet elements,
// whose daily motion is given explicitly.
func NewMajorPlanetTarget(el Elements) *OrbitTarget {
	return &OrbitTarget{Kind: MajorPlanet, Elements: el}
}

// Sidereal implements Target.
func (o *OrbitTarget) Sidereal() bool { return false }

// Position implements Target.
func (o *OrbitTarget) Position(t time.Time) (SkyCoord, error) {
	form := formMeanAnomaly
	if o.Kind == Comet {
		form = formPerihelion
	}
	return geocentricOfDate(func(mjd float64) (Vec3, error) {
		return o.Elements.heliocentric(form, mjd)
	}, TimeToMJD(t))
}
