package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// lightDaysPerAU is the light travel time across 1 AU in days.
const lightDaysPerAU = 0.0057755183

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000.0.
var obliquityJ2000 = unit.AngleFromDeg(23.4392911)

// EclipticToEquatorial converts J2000 ecliptic XYZ to J2000 equatorial XYZ.
func EclipticToEquatorial(ecl Vec3) Vec3 {
	cosE := obliquityJ2000.Cos()
	sinE := obliquityJ2000.Sin()

	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// unitVector returns the direction of (ra, dec) as a unit vector.
func unitVector(ra, dec unit.Angle) Vec3 {
	return Vec3{
		X: dec.Cos() * ra.Cos(),
		Y: dec.Cos() * ra.Sin(),
		Z: dec.Sin(),
	}
}

// sphericalDeg returns RA (0-360) and Dec in degrees for an equatorial vector.
func sphericalDeg(v Vec3) (raDeg, decDeg float64) {
	r := v.Norm()
	if r == 0 {
		return 0, 0
	}
	raDeg = normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
	decDeg = radToDeg(math.Asin(clamp(v.Z/r, -1, 1)))
	return raDeg, decDeg
}
