package astro

import (
	"math"
	"time"
)

// Reference conditions for atmospheric refraction.
const (
	seaLevelPressureKPa = 101.325
	scaleHeightM        = 8400.0
	refractionTempC     = 10.0
)

// Refraction returns the atmospheric refraction in degrees for a geometric
// altitude, at the pressure implied by the site elevation
// (Sæmundsson 1986).
func Refraction(altDeg, elevationM float64) float64 {
	if altDeg < -1 {
		return 0
	}
	pressure := seaLevelPressureKPa * math.Exp(-elevationM/scaleHeightM)
	r := 1.02 / math.Tan(degToRad(altDeg+10.3/(altDeg+5.11))) // arcmin
	r *= (pressure / 101.0) * (283.0 / (273.0 + refractionTempC))
	return r / 60
}

// hardieLimitDeg is the zenith distance beyond which the Hardie polynomial
// stops being monotonic.
const hardieLimitDeg = 85.0

// Airmass returns the relative air mass for a geometric altitude in
// degrees using the Hardie (1962) polynomial on the refracted altitude,
// switching to Kasten & Young (1989) close to the horizon.
// Targets at or below the horizon return +Inf.
func Airmass(altDeg, elevationM float64) float64 {
	apparent := altDeg + Refraction(altDeg, elevationM)
	if apparent <= 0 {
		return math.Inf(1)
	}
	z := 90 - apparent
	if z > hardieLimitDeg {
		return 1 / (math.Cos(degToRad(z)) + 0.50572*math.Pow(96.07995-z, -1.6364))
	}
	secZ := 1 / math.Cos(degToRad(z))
	x := secZ - 1
	return secZ - 0.0018167*x - 0.002875*x*x - 0.0008083*x*x*x
}

// AirmassAt computes the airmass of a target seen from obs at t.
func AirmassAt(target Target, obs Observer, t time.Time) (float64, error) {
	eq, err := target.Position(t)
	if err != nil {
		return 0, err
	}
	horiz := EquatorialToHorizontal(eq, obs, t)
	return Airmass(horiz.ElDeg, obs.ElevationM), nil
}
