// Package visibility computes when targets can be observed from the
// registered telescopes: observable intervals, airmass series and dark
// time, fanned out across telescopes.
package visibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/ephem"
	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/metrics"
	"github.com/litescript/ls-skywindow/internal/telemetry"
	"github.com/litescript/ls-skywindow/internal/telescope"
)

// AirmassStep is the sampling interval of airmass series.
const AirmassStep = 10 * time.Minute

// Status describes how a per-telescope computation ended.
type Status int

const (
	StatusOK Status = iota

	// StatusUnsolvable marks a target whose position was undefined over
	// the whole window. Its interval list is empty.
	StatusUnsolvable
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnsolvable:
		return "unsolvable"
	default:
		return "unknown"
	}
}

// Result is the visibility of one target from one telescope.
type Result struct {
	Telescope string
	Intervals []intervals.Interval
	Status    Status
}

// AirmassSeries is a sampled airmass curve. Times and Airmasses are
// aligned by index.
type AirmassSeries struct {
	Times     []time.Time
	Airmasses []float64
}

// Len returns the number of samples.
func (s AirmassSeries) Len() int { return len(s.Times) }

// Engine computes per-telescope results through an ephemeris provider.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	provider ephem.Provider
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// NewEngine creates an engine. m may be nil.
func NewEngine(provider ephem.Provider, logger zerolog.Logger, m *metrics.Collector) *Engine {
	return &Engine{provider: provider, logger: logger, metrics: m}
}

// log returns the request logger carried by ctx, falling back to the
// engine's own.
func (e *Engine) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &e.logger
}

// Intervals returns the observable intervals of target from tel, merged
// and clipped to [start, end). A target whose position cannot be solved anywhere
// in the window yields an empty result with StatusUnsolvable, not an
// error.
func (e *Engine) Intervals(ctx context.Context, tel telescope.Telescope, target astro.Target, start, end time.Time, limits Limits) (Result, error) {
	_, span := telemetry.StartSpan(ctx, "visibility.intervals", attribute.String("telescope", tel.ID))
	defer span.End()

	began := time.Now()
	res := Result{Telescope: tel.ID}

	raw, err := e.provider.ObservableIntervals(tel.Site(), target, start, end, limits.Constraints())
	switch {
	case errors.Is(err, astro.ErrMovingViolation):
		res.Status = StatusUnsolvable
		e.metrics.ObserveComputation("intervals", metrics.OutcomeUnsolvable, time.Since(began))
		e.log(ctx).Warn().Str("telescope", tel.ID).Msg("target position undefined over window")
		span.SetAttributes(attribute.String("status", res.Status.String()))
		return res, nil
	case err != nil:
		e.metrics.ObserveComputation("intervals", metrics.OutcomeError, time.Since(began))
		telemetry.RecordError(span, err)
		return res, fmt.Errorf("telescope %s: %w", tel.ID, err)
	}

	res.Intervals = intervals.Clip(raw, start, end)

	outcome := metrics.OutcomeOK
	if len(res.Intervals) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	e.metrics.ObserveComputation("intervals", outcome, time.Since(began))
	e.log(ctx).Debug().
		Str("telescope", tel.ID).
		Int("intervals", len(res.Intervals)).
		Dur("observable", intervals.Total(res.Intervals)).
		Msg("intervals computed")
	span.SetAttributes(attribute.Int("intervals", len(res.Intervals)))
	return res, nil
}

// Airmass samples the target's airmass through ivs every AirmassStep
// from each interval's start. Only whole steps are sampled, so an
// interval of duration D contributes floor(D/AirmassStep) samples.
// Instants at which the target position is undefined are skipped.
func (e *Engine) Airmass(ctx context.Context, tel telescope.Telescope, target astro.Target, ivs []intervals.Interval) (AirmassSeries, error) {
	_, span := telemetry.StartSpan(ctx, "visibility.airmass", attribute.String("telescope", tel.ID))
	defer span.End()

	began := time.Now()
	obs := tel.Site().Observer
	var series AirmassSeries

	for _, iv := range ivs {
		n := int(iv.Duration() / AirmassStep)
		for i := 0; i < n; i++ {
			t := iv.Start.Add(time.Duration(i) * AirmassStep)
			am, err := e.provider.Airmass(target, obs, t)
			if errors.Is(err, astro.ErrUndefinedPosition) {
				continue
			}
			if err != nil {
				e.metrics.ObserveComputation("airmass", metrics.OutcomeError, time.Since(began))
				telemetry.RecordError(span, err)
				return AirmassSeries{}, fmt.Errorf("telescope %s: airmass at %s: %w", tel.ID, t.Format(time.RFC3339), err)
			}
			series.Times = append(series.Times, t)
			series.Airmasses = append(series.Airmasses, am)
		}
	}

	outcome := metrics.OutcomeOK
	if series.Len() == 0 {
		outcome = metrics.OutcomeEmpty
	}
	e.metrics.ObserveComputation("airmass", outcome, time.Since(began))
	e.metrics.AddSamples(series.Len())
	span.SetAttributes(attribute.Int("samples", series.Len()))
	return series, nil
}

// DarkIntervals returns the parts of [start, end) in which the sun is
// below nautical twilight at tel.
func (e *Engine) DarkIntervals(ctx context.Context, tel telescope.Telescope, start, end time.Time) ([]intervals.Interval, error) {
	_, span := telemetry.StartSpan(ctx, "visibility.dark", attribute.String("telescope", tel.ID))
	defer span.End()

	began := time.Now()
	dark, err := e.provider.DarkIntervals(tel.Site().Observer, start, end, astro.NauticalTwilight)
	if err != nil {
		e.metrics.ObserveComputation("dark", metrics.OutcomeError, time.Since(began))
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("telescope %s: %w", tel.ID, err)
	}
	e.metrics.ObserveComputation("dark", metrics.OutcomeOK, time.Since(began))
	return dark, nil
}
