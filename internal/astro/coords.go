// Package astro is the in-process ephemeris: positions of fixed and
// solar-system targets, the sun and moon, airmass, and the site visibility
// solver built on top of them.
//
// Precision is that of low-order almanac formulae (arcminutes for the sun
// and planets, a few tenths of a degree for the moon); nutation and
// aberration are ignored.
package astro

import (
	"math"
	"time"
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (mean equator and equinox of date unless noted)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)

	// Geocentric distance in AU, zero when unknown or effectively infinite.
	DistanceAU float64
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg     float64 // Latitude in degrees (north positive)
	LonDeg     float64 // Longitude in degrees (east positive)
	ElevationM float64 // Height above sea level in meters
	Name       string  // Optional name for the site
}

const (
	// jdJ2000 is the Julian date of the J2000.0 epoch.
	jdJ2000 = 2451545.0

	// mjdOffset converts Julian dates to modified Julian dates.
	mjdOffset = 2400000.5

	daysPerJulianYear    = 365.25
	daysPerJulianCentury = 36525.0
)

var mjdEpoch = time.Date(1858, 11, 17, 0, 0, 0, 0, time.UTC)

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)
	ha := degToRad(HourAngle(eq.RAdeg, obs.LonDeg, t))

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clamp(cosAz, -1, 1))

	// Positive hour angle means the target is west of the meridian.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return SkyCoord{
		RAdeg:      eq.RAdeg,
		DecDeg:     eq.DecDeg,
		AzDeg:      normalizeAngle360(radToDeg(az)),
		ElDeg:      radToDeg(alt),
		DistanceAU: eq.DistanceAU,
	}
}

// HourAngle returns the local hour angle in degrees, normalized to
// [-180, 180). Negative values are east of the meridian.
func HourAngle(raDeg, lonDeg float64, t time.Time) float64 {
	return normalizeAngle180(localSiderealTime(t, lonDeg) - raDeg)
}

// localSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU 1982 expression in Julian date.
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := julianDate(t)
	T := (jd - jdJ2000) / daysPerJulianCentury

	gmst := 280.46061837 +
		360.98564736629*(jd-jdJ2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// julianDate calculates the Julian Date for a given time.
func julianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// January/February count as months 13/14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// TimeToMJD returns the modified Julian date of t.
func TimeToMJD(t time.Time) float64 {
	return julianDate(t) - mjdOffset
}

// MJDToTime converts a modified Julian date to a UTC time.
func MJDToTime(mjd float64) time.Time {
	days := math.Floor(mjd)
	frac := mjd - days
	return mjdEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * 86400 * float64(time.Second)))
}

// JulianEpochToJD converts a Julian epoch year (e.g. 2000.0) to a Julian date.
func JulianEpochToJD(epoch float64) float64 {
	return jdJ2000 + (epoch-2000.0)*daysPerJulianYear
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// normalizeAngle180 normalizes an angle to [-180, 180) degrees.
func normalizeAngle180(a float64) float64 {
	a = normalizeAngle360(a)
	if a >= 180 {
		a -= 360
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
