package visibility

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/metrics"
	"github.com/litescript/ls-skywindow/internal/target"
	"github.com/litescript/ls-skywindow/internal/telemetry"
	"github.com/litescript/ls-skywindow/internal/telescope"
)

// Orchestrator runs an engine across the telescopes of a request.
// Telescopes are computed independently, at most concurrency at a time.
type Orchestrator struct {
	engine      *Engine
	concurrency int
	logger      zerolog.Logger
	metrics     *metrics.Collector
}

// NewOrchestrator creates an orchestrator. concurrency below 1 is
// treated as 1.
func NewOrchestrator(engine *Engine, concurrency int, logger zerolog.Logger, m *metrics.Collector) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{engine: engine, concurrency: concurrency, logger: logger, metrics: m}
}

// Engine returns the underlying engine.
func (o *Orchestrator) Engine() *Engine { return o.engine }

// Results computes the visibility of the request's target from every
// requested telescope, in request order.
func (o *Orchestrator) Results(ctx context.Context, req Request) ([]Result, error) {
	tgt := target.Build(req.Target)
	results := make([]Result, len(req.Telescopes))

	err := o.fanOut(ctx, "visibility.request.intervals", req.Telescopes, req.Target.Kind(), func(ctx context.Context, i int, tel telescope.Telescope) error {
		res, err := o.engine.Intervals(ctx, tel, tgt, req.Start, req.End, req.Limits)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// IntervalsByTelescope maps every requested telescope to its observable
// intervals. Telescopes that never see the target map to an empty list.
func (o *Orchestrator) IntervalsByTelescope(ctx context.Context, req Request) (map[string][]intervals.Interval, error) {
	results, err := o.Results(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]intervals.Interval, len(results))
	for _, r := range results {
		out[r.Telescope] = r.Intervals
	}
	return out, nil
}

// AirmassByTelescope samples the airmass through each telescope's
// observable intervals. Telescopes without samples are omitted.
func (o *Orchestrator) AirmassByTelescope(ctx context.Context, req Request) (map[string]AirmassSeries, error) {
	tgt := target.Build(req.Target)
	series := make([]AirmassSeries, len(req.Telescopes))

	err := o.fanOut(ctx, "visibility.request.airmass", req.Telescopes, req.Target.Kind(), func(ctx context.Context, i int, tel telescope.Telescope) error {
		res, err := o.engine.Intervals(ctx, tel, tgt, req.Start, req.End, req.Limits)
		if err != nil {
			return err
		}
		s, err := o.engine.Airmass(ctx, tel, tgt, res.Intervals)
		if err != nil {
			return err
		}
		series[i] = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]AirmassSeries)
	for i, tel := range req.Telescopes {
		if series[i].Len() > 0 {
			out[tel.ID] = series[i]
		}
	}
	return out, nil
}

// DarkIntervalsByTelescope maps every telescope of the window to the
// intervals in which the sun is below nautical twilight.
func (o *Orchestrator) DarkIntervalsByTelescope(ctx context.Context, w Window) (map[string][]intervals.Interval, error) {
	dark := make([][]intervals.Interval, len(w.Telescopes))

	err := o.fanOut(ctx, "visibility.request.dark", w.Telescopes, "", func(ctx context.Context, i int, tel telescope.Telescope) error {
		ivs, err := o.engine.DarkIntervals(ctx, tel, w.Start, w.End)
		if err != nil {
			return err
		}
		dark[i] = ivs
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string][]intervals.Interval, len(dark))
	for i, tel := range w.Telescopes {
		out[tel.ID] = dark[i]
	}
	return out, nil
}

// fanOut runs fn for every telescope under one request span and query id.
// Each call writes only its own index of the caller's result slice.
func (o *Orchestrator) fanOut(ctx context.Context, name string, tels []telescope.Telescope, kind target.Kind, fn func(context.Context, int, telescope.Telescope) error) error {
	queryID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, name,
		attribute.String("query_id", queryID),
		attribute.Int("telescopes", len(tels)),
		attribute.String("target_type", string(kind)),
	)
	defer span.End()

	logger := o.logger.With().
		Str("query_id", queryID).
		Str("target_type", string(kind)).
		Logger()
	ctx = logger.WithContext(ctx)

	o.metrics.SetTelescopes(len(tels))
	began := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, tel := range tels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, tel)
		})
	}

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		logger.Error().Err(err).Msg("request failed")
		return err
	}
	logger.Debug().
		Str("request", name).
		Int("telescopes", len(tels)).
		Dur("elapsed", time.Since(began)).
		Msg("request complete")
	return nil
}
