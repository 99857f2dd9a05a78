package ephem

import (
	"fmt"
	"time"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/intervals"
)

// LocalProvider answers visibility questions with the in-process astro
// solver. It holds no mutable state and is safe for concurrent use.
type LocalProvider struct {
	solver astro.Solver
	mode   Mode
}

// NewLocalProvider creates a provider for the given mode.
func NewLocalProvider(mode Mode) *LocalProvider {
	solver := astro.DefaultSolver()
	if mode == ModeFast {
		solver.Step = 20 * time.Minute
		solver.Tolerance = time.Second
	}
	return &LocalProvider{solver: solver, mode: mode}
}

// Name implements Provider.
func (p *LocalProvider) Name() string {
	return "local/" + p.mode.String()
}

// ObservableIntervals implements Provider.
func (p *LocalProvider) ObservableIntervals(site astro.Site, target astro.Target, start, end time.Time, c astro.Constraints) ([]intervals.Interval, error) {
	ivs, err := p.solver.ObservableIntervals(site, target, start, end, c)
	if err != nil {
		return nil, fmt.Errorf("solve %s: %w", site.Name, err)
	}
	return ivs, nil
}

// DarkIntervals implements Provider.
func (p *LocalProvider) DarkIntervals(obs astro.Observer, start, end time.Time, twilightDeg float64) ([]intervals.Interval, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("dark intervals: end %s not after start %s", end, start)
	}
	return p.solver.DarkIntervals(obs, start, end, twilightDeg), nil
}

// Airmass implements Provider.
func (p *LocalProvider) Airmass(target astro.Target, obs astro.Observer, t time.Time) (float64, error) {
	return astro.AirmassAt(target, obs, t)
}
