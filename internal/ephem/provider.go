// Package ephem defines the ephemeris capability the visibility engine
// depends on and provides the in-process implementation.
package ephem

import (
	"time"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/intervals"
)

// Provider defines the interface for ephemeris and visibility sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// ObservableIntervals returns the raw intervals in [start, end) during
	// which target satisfies the site limits and constraints. It returns
	// an error wrapping astro.ErrMovingViolation when the target's
	// position cannot be solved anywhere in the window.
	ObservableIntervals(site astro.Site, target astro.Target, start, end time.Time, c astro.Constraints) ([]intervals.Interval, error)

	// DarkIntervals returns the intervals in [start, end) during which the
	// sun is at or below twilightDeg.
	DarkIntervals(obs astro.Observer, start, end time.Time, twilightDeg float64) ([]intervals.Interval, error)

	// Airmass returns the airmass of target at t seen from obs.
	Airmass(target astro.Target, obs astro.Observer, t time.Time) (float64, error)
}

// Mode represents which solving strategy the local provider uses.
type Mode int

const (
	ModeDefault Mode = iota // 5 minute grid with bisection, 15 minute moving-target steps
	ModeFast                // coarser grid, for previews
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeFast:
		return "fast"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) Mode {
	switch s {
	case "fast":
		return ModeFast
	default:
		return ModeDefault
	}
}
