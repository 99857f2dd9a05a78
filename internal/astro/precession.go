package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// Precess rotates mean equatorial coordinates from the equinox at
// fromJD to the equinox at toJD using the IAU 1976 angles (ζ, z, θ).
// Angles are in degrees.
func Precess(raDeg, decDeg, fromJD, toJD float64) (float64, float64) {
	if fromJD == toJD {
		return raDeg, decDeg
	}

	T := (fromJD - jdJ2000) / daysPerJulianCentury
	t := (toJD - fromJD) / daysPerJulianCentury

	zetaSec := (2306.2181+1.39656*T-0.000139*T*T)*t +
		(0.30188-0.000344*T)*t*t + 0.017998*t*t*t
	zSec := (2306.2181+1.39656*T-0.000139*T*T)*t +
		(1.09468+0.000066*T)*t*t + 0.018203*t*t*t
	thetaSec := (2004.3109-0.85330*T-0.000217*T*T)*t -
		(0.42665+0.000217*T)*t*t - 0.041833*t*t*t

	zeta := unit.AngleFromSec(zetaSec)
	z := unit.AngleFromSec(zSec)
	theta := unit.AngleFromSec(thetaSec)

	ra := unit.AngleFromDeg(raDeg) + zeta
	dec := unit.AngleFromDeg(decDeg)

	A := dec.Cos() * ra.Sin()
	B := theta.Cos()*dec.Cos()*ra.Cos() - theta.Sin()*dec.Sin()
	C := theta.Sin()*dec.Cos()*ra.Cos() + theta.Cos()*dec.Sin()

	outRA := unit.Angle(math.Atan2(A, B)) + z
	outDec := unit.Angle(math.Asin(clamp(C, -1, 1)))

	return normalizeAngle360(outRA.Deg()), outDec.Deg()
}

// precessVector rotates a J2000 equatorial vector to the mean equator of jd.
func precessVector(v Vec3, jd float64) Vec3 {
	r := v.Norm()
	if r == 0 {
		return v
	}
	ra, dec := sphericalDeg(v)
	ra, dec = Precess(ra, dec, jdJ2000, jd)
	return unitVector(unit.AngleFromDeg(ra), unit.AngleFromDeg(dec)).Scale(r)
}
