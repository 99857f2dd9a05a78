package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// Sun altitudes in degrees that bound the twilight phases.
const (
	CivilTwilight        = -6.0
	NauticalTwilight     = -12.0
	AstronomicalTwilight = -18.0
)

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees for RA, ~0.001 degrees for Dec.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	s := solarCoords(t)
	return s.raDeg, s.decDeg
}

// SunAltitude returns the Sun's geometric altitude in degrees at the observer.
func SunAltitude(obs Observer, t time.Time) float64 {
	ra, dec := SunPosition(t)
	return EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, t).ElDeg
}

// SunVector returns the geocentric equatorial position of the Sun in AU,
// referred to the equator and equinox of date.
func SunVector(t time.Time) Vec3 {
	s := solarCoords(t)
	return unitVector(s.ra(), s.dec()).Scale(s.distanceAU)
}

type solar struct {
	raDeg, decDeg float64
	distanceAU    float64
}

func (s solar) ra() unit.Angle  { return unit.AngleFromDeg(s.raDeg) }
func (s solar) dec() unit.Angle { return unit.AngleFromDeg(s.decDeg) }

func solarCoords(t time.Time) solar {
	T := (julianDate(t) - jdJ2000) / daysPerJulianCentury

	// Mean longitude and mean anomaly (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	sunLon := L0 + C
	v := degToRad(M + C)
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T
	R := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(v))

	// Apparent longitude (aberration and nutation in longitude)
	omega := 125.04 - 1934.136*T
	sunLonApp := sunLon - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(degToRad(omega))

	lon := degToRad(sunLonApp)
	epsRad := degToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(lon), math.Cos(lon))
	dec := math.Asin(math.Sin(epsRad) * math.Sin(lon))

	return solar{
		raDeg:      normalizeAngle360(radToDeg(ra)),
		decDeg:     radToDeg(dec),
		distanceAU: R,
	}
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula for angular separation
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}
