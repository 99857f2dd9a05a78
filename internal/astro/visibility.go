package astro

import (
	"errors"
	"time"

	"github.com/litescript/ls-skywindow/internal/intervals"
)

// ErrMovingViolation is returned when a non-sidereal target's position
// cannot be computed anywhere in the requested window.
var ErrMovingViolation = errors.New("target position undefined over the entire window")

// Site is an observing location together with its pointing limits.
type Site struct {
	Observer

	HorizonDeg         float64 // minimum geometric altitude
	HANegDeg           float64 // eastern hour-angle limit (negative)
	HAPosDeg           float64 // western hour-angle limit
	ZenithBlindSpotDeg float64 // radius around zenith that cannot be tracked
}

// Constraints are the per-query observing limits.
type Constraints struct {
	MaxAirmass          float64
	MinLunarDistanceDeg float64
	MaxLunarPhase       float64

	// TwilightDeg is the sun altitude that must not be exceeded.
	TwilightDeg float64
}

// DefaultConstraints returns the limits used when a query leaves them unset.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxAirmass:          2.0,
		MinLunarDistanceDeg: 0.0,
		MaxLunarPhase:       1.0,
		TwilightDeg:         NauticalTwilight,
	}
}

// moonConstrained reports whether any lunar limit can reject a position.
func (c Constraints) moonConstrained() bool {
	return c.MinLunarDistanceDeg > 0 || c.MaxLunarPhase < 1
}

// Solver computes observable intervals.
type Solver struct {
	// Step is the grid spacing for sidereal targets and the sun. Crossings
	// between grid points are refined by bisection to Tolerance.
	Step      time.Duration
	Tolerance time.Duration

	// NonSiderealStep is the sampling resolution for moving targets.
	NonSiderealStep time.Duration
}

// DefaultSolver returns the solver configuration used by the ephemeris
// provider.
func DefaultSolver() Solver {
	return Solver{
		Step:            5 * time.Minute,
		Tolerance:       time.Millisecond,
		NonSiderealStep: 15 * time.Minute,
	}
}

// DarkIntervals returns the parts of [start, end) during which the sun is
// at or below twilightDeg at the observer.
func (s Solver) DarkIntervals(obs Observer, start, end time.Time, twilightDeg float64) []intervals.Interval {
	return s.solve(start, end, func(t time.Time) bool {
		return SunAltitude(obs, t) <= twilightDeg
	})
}

// ObservableIntervals returns the coalesced intervals within [start, end)
// during which the target satisfies every site limit and constraint.
func (s Solver) ObservableIntervals(site Site, target Target, start, end time.Time, c Constraints) ([]intervals.Interval, error) {
	if !end.After(start) {
		return nil, nil
	}

	dark := s.DarkIntervals(site.Observer, start, end, c.TwilightDeg)
	if len(dark) == 0 {
		if !target.Sidereal() && !s.anyDefined(target, start, end) {
			return nil, ErrMovingViolation
		}
		return nil, nil
	}

	if target.Sidereal() {
		up := s.solve(start, end, func(t time.Time) bool {
			ok, _ := s.satisfied(site, target, t, c)
			return ok
		})
		return intervals.Intersect(up, dark), nil
	}

	var (
		steps   []intervals.Interval
		defined bool
	)
	for t := start; t.Before(end); t = t.Add(s.NonSiderealStep) {
		ok, err := s.satisfied(site, target, t, c)
		if err != nil {
			continue
		}
		defined = true
		if ok {
			stepEnd := t.Add(s.NonSiderealStep)
			if stepEnd.After(end) {
				stepEnd = end
			}
			steps = append(steps, intervals.Interval{Start: t, End: stepEnd})
		}
	}
	if !defined {
		return nil, ErrMovingViolation
	}
	return intervals.Intersect(intervals.Coalesce(steps), dark), nil
}

func (s Solver) anyDefined(target Target, start, end time.Time) bool {
	for t := start; t.Before(end); t = t.Add(s.NonSiderealStep) {
		if _, err := target.Position(t); err == nil {
			return true
		}
	}
	return false
}

// satisfied evaluates every target-dependent limit at t. Sun altitude is
// handled separately through DarkIntervals.
func (s Solver) satisfied(site Site, target Target, t time.Time, c Constraints) (bool, error) {
	eq, err := target.Position(t)
	if err != nil {
		return false, err
	}
	horiz := EquatorialToHorizontal(eq, site.Observer, t)

	if horiz.ElDeg <= site.HorizonDeg {
		return false, nil
	}
	if 90-horiz.ElDeg < site.ZenithBlindSpotDeg {
		return false, nil
	}
	if Airmass(horiz.ElDeg, site.ElevationM) > c.MaxAirmass {
		return false, nil
	}

	ha := HourAngle(eq.RAdeg, site.LonDeg, t)
	if ha < site.HANegDeg || ha > site.HAPosDeg {
		return false, nil
	}

	if c.moonConstrained() {
		if c.MaxLunarPhase < 1 && MoonIllumination(t) > c.MaxLunarPhase {
			return false, nil
		}
		if c.MinLunarDistanceDeg > 0 {
			moon := MoonPosition(site.Observer, t)
			if AngularSeparation(eq.RAdeg, eq.DecDeg, moon.RAdeg, moon.DecDeg) < c.MinLunarDistanceDeg {
				return false, nil
			}
		}
	}
	return true, nil
}

// solve finds the intervals in [start, end) where pred holds, sampling on
// the solver grid and bisecting each transition. Boundaries are placed on
// the side where pred holds.
func (s Solver) solve(start, end time.Time, pred func(time.Time) bool) []intervals.Interval {
	var (
		out     []intervals.Interval
		inside  = pred(start)
		opened  = start
		prevT   = start
		stopped bool
	)

	for !stopped {
		t := prevT.Add(s.Step)
		if !t.Before(end) {
			t = end
			stopped = true
		}
		now := pred(t)

		if now != inside {
			edge := s.bisect(prevT, t, inside, pred)
			if inside {
				out = append(out, intervals.Interval{Start: opened, End: edge})
			} else {
				opened = edge
			}
			inside = now
		}
		prevT = t
	}

	if inside {
		out = append(out, intervals.Interval{Start: opened, End: end})
	}
	return intervals.Coalesce(out)
}

// bisect narrows a transition between lo (where pred == loState) and hi
// (where it differs) and returns the boundary instant on the side where
// pred holds.
func (s Solver) bisect(lo, hi time.Time, loState bool, pred func(time.Time) bool) time.Time {
	for hi.Sub(lo) > s.Tolerance {
		mid := lo.Add(hi.Sub(lo) / 2)
		if pred(mid) == loState {
			lo = mid
		} else {
			hi = mid
		}
	}
	if loState {
		return lo
	}
	return hi
}
