package astro

import (
	"math"
	"time"
)

// earthRadiusAU is the equatorial radius of the Earth in AU.
const earthRadiusAU = 6378.14 / AU

// MoonPosition returns the topocentric equatorial coordinates of the Moon
// for the observer, with DistanceAU set. Low-precision series from the
// Astronomical Almanac: about 0.3 degrees in position.
func MoonPosition(obs Observer, t time.Time) SkyCoord {
	geo := moonGeocentric(t) // Earth radii

	lst := degToRad(localSiderealTime(t, obs.LonDeg))
	lat := degToRad(obs.LatDeg)
	site := Vec3{
		X: math.Cos(lat) * math.Cos(lst),
		Y: math.Cos(lat) * math.Sin(lst),
		Z: math.Sin(lat),
	}

	topo := geo.Sub(site)
	ra, dec := sphericalDeg(topo)
	return SkyCoord{RAdeg: ra, DecDeg: dec, DistanceAU: topo.Norm() * earthRadiusAU}
}

// MoonIllumination returns the illuminated fraction of the Moon's disk,
// 0 at new moon and 1 at full moon.
func MoonIllumination(t time.Time) float64 {
	moon := moonGeocentric(t).Scale(earthRadiusAU)
	sun := SunVector(t)

	// Phase angle at the Moon between the Sun and the Earth.
	toSun := sun.Sub(moon)
	toEarth := moon.Scale(-1)
	cosI := toSun.Dot(toEarth) / (toSun.Norm() * toEarth.Norm())
	return (1 + clamp(cosI, -1, 1)) / 2
}

// moonGeocentric returns the geocentric equatorial vector of the Moon in
// Earth radii.
func moonGeocentric(t time.Time) Vec3 {
	T := (julianDate(t) - jdJ2000) / daysPerJulianCentury

	sinDeg := func(d float64) float64 { return math.Sin(degToRad(d)) }
	cosDeg := func(d float64) float64 { return math.Cos(degToRad(d)) }

	lambda := 218.32 + 481267.881*T +
		6.29*sinDeg(135.0+477198.87*T) -
		1.27*sinDeg(259.3-413335.36*T) +
		0.66*sinDeg(235.7+890534.22*T) +
		0.21*sinDeg(269.9+954397.74*T) -
		0.19*sinDeg(357.5+35999.05*T) -
		0.11*sinDeg(186.5+966404.03*T)

	beta := 5.13*sinDeg(93.3+483202.02*T) +
		0.28*sinDeg(228.2+960400.89*T) -
		0.28*sinDeg(318.3+6003.15*T) -
		0.17*sinDeg(217.6-407332.21*T)

	hp := 0.9508 +
		0.0518*cosDeg(135.0+477198.87*T) +
		0.0095*cosDeg(259.3-413335.36*T) +
		0.0078*cosDeg(235.7+890534.22*T) +
		0.0028*cosDeg(269.9+954397.74*T)

	r := 1 / sinDeg(hp)

	l := cosDeg(beta) * cosDeg(lambda)
	m := 0.9175*cosDeg(beta)*sinDeg(lambda) - 0.3978*sinDeg(beta)
	n := 0.3978*cosDeg(beta)*sinDeg(lambda) + 0.9175*sinDeg(beta)

	return Vec3{X: l, Y: m, Z: n}.Scale(r)
}
