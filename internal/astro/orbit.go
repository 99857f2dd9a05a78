package astro

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// Gaussian gravitational constant in radians per day.
const gaussK = 0.01720209895

// ErrUndefinedPosition is returned when an orbit cannot be propagated to
// the requested instant (bad elements, non-converging anomaly solve).
var ErrUndefinedPosition = errors.New("orbital position undefined")

// Elements are heliocentric osculating elements referred to the J2000
// ecliptic and equinox. Angles are in degrees, distances in AU and epochs
// in MJD. Which fields are meaningful depends on the parameterization:
// mean-anomaly orbits use SemiMajorAxisAU, MeanAnomalyDeg and optionally
// DailyMotionDeg; perihelion orbits use PerihelionDistanceAU and
// PerihelionMJD.
type Elements struct {
	EpochMJD             float64
	InclinationDeg       float64
	NodeDeg              float64
	ArgPerihelionDeg     float64
	Eccentricity         float64
	SemiMajorAxisAU      float64
	MeanAnomalyDeg       float64
	DailyMotionDeg       float64
	PerihelionDistanceAU float64
	PerihelionMJD        float64
}

// orbitForm selects how the in-plane position is derived.
type orbitForm int

const (
	formMeanAnomaly orbitForm = iota
	formPerihelion
)

// heliocentric returns the heliocentric J2000 ecliptic position in AU at
// the given MJD.
func (el Elements) heliocentric(form orbitForm, mjd float64) (Vec3, error) {
	var x, y float64
	var err error

	switch form {
	case formMeanAnomaly:
		x, y, err = el.meanAnomalyPlane(mjd)
	case formPerihelion:
		x, y, err = el.perihelionPlane(mjd)
	default:
		panic(fmt.Sprintf("astro: unknown orbit form %d", form))
	}
	if err != nil {
		return Vec3{}, err
	}

	p, q := orientation(
		unit.AngleFromDeg(el.InclinationDeg),
		unit.AngleFromDeg(el.NodeDeg),
		unit.AngleFromDeg(el.ArgPerihelionDeg),
	)
	pos := p.Scale(x).Add(q.Scale(y))
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		return Vec3{}, ErrUndefinedPosition
	}
	return pos, nil
}

func (el Elements) meanAnomalyPlane(mjd float64) (x, y float64, err error) {
	a, e := el.SemiMajorAxisAU, el.Eccentricity
	if a <= 0 || e < 0 || e >= 1 {
		return 0, 0, fmt.Errorf("%w: a=%g e=%g", ErrUndefinedPosition, a, e)
	}

	n := el.DailyMotionDeg
	if n <= 0 {
		n = radToDeg(gaussK) / (a * math.Sqrt(a))
	}
	M := degToRad(normalizeAngle360(el.MeanAnomalyDeg + n*(mjd-el.EpochMJD)))

	E, err := solveKepler(M, e)
	if err != nil {
		return 0, 0, err
	}
	return a * (math.Cos(E) - e), a * math.Sqrt(1-e*e) * math.Sin(E), nil
}

func (el Elements) perihelionPlane(mjd float64) (x, y float64, err error) {
	q, e := el.PerihelionDistanceAU, el.Eccentricity
	if q <= 0 || e < 0 {
		return 0, 0, fmt.Errorf("%w: q=%g e=%g", ErrUndefinedPosition, q, e)
	}
	dt := mjd - el.PerihelionMJD

	switch {
	case math.Abs(e-1) < 1e-8:
		// Barker's equation: s^3 + 3s = W with s = tan(v/2).
		W := 3 * gaussK / (math.Sqrt2 * q * math.Sqrt(q)) * dt
		Y := math.Cbrt(W/2 + math.Sqrt(W*W/4+1))
		s := Y - 1/Y
		return q * (1 - s*s), 2 * q * s, nil

	case e < 1:
		a := q / (1 - e)
		M := math.Mod(gaussK/(a*math.Sqrt(a))*dt, 2*math.Pi)
		E, err := solveKepler(M, e)
		if err != nil {
			return 0, 0, err
		}
		return a * (math.Cos(E) - e), a * math.Sqrt(1-e*e) * math.Sin(E), nil

	default:
		a := q / (e - 1)
		M := gaussK / (a * math.Sqrt(a)) * dt
		H, err := solveHyperbolic(M, e)
		if err != nil {
			return 0, 0, err
		}
		return a * (e - math.Cosh(H)), a * math.Sqrt(e*e-1) * math.Sinh(H), nil
	}
}

// solveKepler solves E - e sin E = M for the eccentric anomaly.
func solveKepler(M, e float64) (float64, error) {
	E := M
	if e > 0.8 {
		E = math.Pi
	}
	for i := 0; i < 100; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			return E, nil
		}
	}
	return 0, fmt.Errorf("%w: kepler solve did not converge (M=%g e=%g)", ErrUndefinedPosition, M, e)
}

// solveHyperbolic solves e sinh H - H = M.
func solveHyperbolic(M, e float64) (float64, error) {
	H := math.Asinh(M / e)
	for i := 0; i < 100; i++ {
		dH := (e*math.Sinh(H) - H - M) / (e*math.Cosh(H) - 1)
		H -= dH
		if math.Abs(dH) < 1e-12 {
			return H, nil
		}
		if math.IsInf(H, 0) || math.IsNaN(H) {
			break
		}
	}
	return 0, fmt.Errorf("%w: hyperbolic solve did not converge (M=%g e=%g)", ErrUndefinedPosition, M, e)
}

// orientation returns the P and Q unit vectors of the orbital plane in
// ecliptic coordinates.
func orientation(inc, node, argp unit.Angle) (p, q Vec3) {
	ci, si := inc.Cos(), inc.Sin()
	cn, sn := node.Cos(), node.Sin()
	cw, sw := argp.Cos(), argp.Sin()

	p = Vec3{
		X: cw*cn - sw*sn*ci,
		Y: cw*sn + sw*cn*ci,
		Z: sw * si,
	}
	q = Vec3{
		X: -sw*cn - cw*sn*ci,
		Y: -sw*sn + cw*cn*ci,
		Z: cw * si,
	}
	return p, q
}

// earthElements returns approximate elements of the Earth-Moon barycenter
// (JPL, valid 1800-2050) at the given MJD.
func earthElements(mjd float64) Elements {
	T := (mjd + mjdOffset - jdJ2000) / daysPerJulianCentury

	lon := 100.46457166 + 35999.37244981*T
	peri := 102.93768193 + 0.32327364*T

	return Elements{
		EpochMJD:         mjd,
		InclinationDeg:   -0.00001531 - 0.01294668*T,
		NodeDeg:          0,
		ArgPerihelionDeg: peri,
		Eccentricity:     0.01671123 - 0.00004392*T,
		SemiMajorAxisAU:  1.00000261 + 0.00000562*T,
		MeanAnomalyDeg:   normalizeAngle360(lon - peri),
	}
}

// earthHeliocentric returns the heliocentric J2000 ecliptic position of
// the Earth in AU.
func earthHeliocentric(mjd float64) Vec3 {
	pos, err := earthElements(mjd).heliocentric(formMeanAnomaly, mjd)
	if err != nil {
		panic(fmt.Sprintf("astro: earth position: %v", err))
	}
	return pos
}

// geocentricOfDate returns the RA/Dec of date and distance of a body given
// its heliocentric position function, corrected for one iteration of
// light time.
func geocentricOfDate(helio func(mjd float64) (Vec3, error), mjd float64) (SkyCoord, error) {
	earth := earthHeliocentric(mjd)

	body, err := helio(mjd)
	if err != nil {
		return SkyCoord{}, err
	}
	tau := body.Sub(earth).Norm() * lightDaysPerAU
	body, err = helio(mjd - tau)
	if err != nil {
		return SkyCoord{}, err
	}

	geo := EclipticToEquatorial(body.Sub(earth))
	geo = precessVector(geo, mjd+mjdOffset)

	ra, dec := sphericalDeg(geo)
	return SkyCoord{RAdeg: ra, DecDeg: dec, DistanceAU: geo.Norm()}, nil
}
