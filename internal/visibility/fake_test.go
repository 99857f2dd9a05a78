package visibility

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/ephem"
	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/logging"
	"github.com/litescript/ls-skywindow/internal/telescope"
)

// fakeProvider answers from canned per-telescope data.
type fakeProvider struct {
	mu        sync.Mutex
	intervals map[string][]intervals.Interval
	errs      map[string]error
	dark      []intervals.Interval
	airmass   func(t time.Time) (float64, error)
	delay     time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ObservableIntervals(site astro.Site, _ astro.Target, _, _ time.Time, _ astro.Constraints) ([]intervals.Interval, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, site.Name)
	f.mu.Unlock()

	if err := f.errs[site.Name]; err != nil {
		return nil, err
	}
	return f.intervals[site.Name], nil
}

func (f *fakeProvider) DarkIntervals(_ astro.Observer, _, _ time.Time, _ float64) ([]intervals.Interval, error) {
	return f.dark, nil
}

func (f *fakeProvider) Airmass(_ astro.Target, _ astro.Observer, t time.Time) (float64, error) {
	if f.airmass == nil {
		return 1.5, nil
	}
	return f.airmass(t)
}

var (
	day     = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	nextDay = day.Add(24 * time.Hour)
)

func at(h, m, s int) time.Time {
	return time.Date(2025, 3, 1, h, m, s, 0, time.UTC)
}

func iv(start, end time.Time) intervals.Interval {
	return intervals.Interval{Start: start, End: end}
}

func near(got, want time.Time, tol time.Duration) bool {
	d := got.Sub(want)
	return d <= tol && d >= -tol
}

func tel(id string) telescope.Telescope {
	return telescope.Telescope{
		ID:              id,
		Latitude:        -31.272932,
		Longitude:       149.070648,
		Horizon:         15,
		PositiveHALimit: 4.6,
		NegativeHALimit: -4.6,
		ElevationM:      3000,
	}
}

func newTestEngine(t *testing.T, p *fakeProvider) *Engine {
	t.Helper()
	return NewEngine(p, logging.Discard(), nil)
}

func ephemLocal() ephem.Provider {
	return ephem.NewLocalProvider(ephem.ModeDefault)
}
