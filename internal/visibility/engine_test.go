package visibility

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/metrics"
)

var m22 = astro.NewICRSTarget(unit.AngleFromDeg(279.09975), unit.AngleFromDeg(-23.90475))

func TestEngineIntervals_Coalesces(t *testing.T) {
	p := &fakeProvider{intervals: map[string][]intervals.Interval{
		"a": {
			iv(at(3, 0, 0), at(4, 0, 0)),
			iv(at(1, 0, 0), at(2, 0, 0)),
			iv(at(2, 0, 0), at(2, 30, 0)),
			iv(at(3, 30, 0), at(5, 0, 0)),
		},
	}}

	res, err := newTestEngine(t, p).Intervals(context.Background(), tel("a"), m22, day, nextDay, DefaultLimits())
	if err != nil {
		t.Fatalf("Intervals() error = %v", err)
	}
	want := []intervals.Interval{iv(at(1, 0, 0), at(2, 30, 0)), iv(at(3, 0, 0), at(5, 0, 0))}
	if len(res.Intervals) != len(want) {
		t.Fatalf("got %v, want %v", res.Intervals, want)
	}
	for i := range want {
		if !res.Intervals[i].Start.Equal(want[i].Start) || !res.Intervals[i].End.Equal(want[i].End) {
			t.Errorf("interval %d = %v, want %v", i, res.Intervals[i], want[i])
		}
	}
	if res.Status != StatusOK || res.Telescope != "a" {
		t.Errorf("result = %+v", res)
	}

	// Coalescing the output again changes nothing.
	again := intervals.Coalesce(res.Intervals)
	if len(again) != len(res.Intervals) {
		t.Errorf("coalesce not idempotent: %v -> %v", res.Intervals, again)
	}
}

func TestEngineIntervals_MovingViolation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatal(err)
	}
	p := &fakeProvider{errs: map[string]error{
		"a": fmt.Errorf("solve a: %w", astro.ErrMovingViolation),
	}}
	e := NewEngine(p, zerolog.Nop(), m)

	res, err := e.Intervals(context.Background(), tel("a"), m22, day, nextDay, DefaultLimits())
	if err != nil {
		t.Fatalf("moving violation surfaced as error: %v", err)
	}
	if res.Status != StatusUnsolvable || len(res.Intervals) != 0 {
		t.Errorf("result = %+v, want empty unsolvable", res)
	}
	if got := testutil.ToFloat64(m.MovingViolations); got != 1 {
		t.Errorf("moving violations = %v, want 1", got)
	}
}

func TestEngineIntervals_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	p := &fakeProvider{errs: map[string]error{"a": boom}}

	_, err := newTestEngine(t, p).Intervals(context.Background(), tel("a"), m22, day, nextDay, DefaultLimits())
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}
}

func TestEngineAirmass_Sampling(t *testing.T) {
	tests := []struct {
		name string
		ivs  []intervals.Interval
		want []time.Time
	}{
		{
			name: "whole steps",
			ivs:  []intervals.Interval{iv(at(1, 0, 0), at(1, 30, 0))},
			want: []time.Time{at(1, 0, 0), at(1, 10, 0), at(1, 20, 0)},
		},
		{
			name: "partial tail dropped",
			ivs:  []intervals.Interval{iv(at(1, 0, 0), at(1, 25, 0))},
			want: []time.Time{at(1, 0, 0), at(1, 10, 0)},
		},
		{
			name: "shorter than a step",
			ivs:  []intervals.Interval{iv(at(1, 0, 0), at(1, 9, 59))},
			want: nil,
		},
		{
			name: "concatenated in order",
			ivs: []intervals.Interval{
				iv(at(1, 0, 5), at(1, 20, 5)),
				iv(at(4, 0, 0), at(4, 10, 0)),
			},
			want: []time.Time{at(1, 0, 5), at(1, 10, 5), at(4, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{airmass: func(ts time.Time) (float64, error) {
				return 1 + float64(ts.Minute())/100, nil
			}}
			got, err := newTestEngine(t, p).Airmass(context.Background(), tel("a"), m22, tt.ivs)
			if err != nil {
				t.Fatalf("Airmass() error = %v", err)
			}
			if got.Len() != len(tt.want) || len(got.Airmasses) != len(got.Times) {
				t.Fatalf("got %d times / %d airmasses, want %d", len(got.Times), len(got.Airmasses), len(tt.want))
			}
			for i, w := range tt.want {
				if !got.Times[i].Equal(w) {
					t.Errorf("time[%d] = %v, want %v", i, got.Times[i], w)
				}
				if got.Airmasses[i] != 1+float64(w.Minute())/100 {
					t.Errorf("airmass[%d] = %v", i, got.Airmasses[i])
				}
			}
		})
	}
}

func TestEngineAirmass_UndefinedSkipped(t *testing.T) {
	p := &fakeProvider{airmass: func(ts time.Time) (float64, error) {
		if ts.Minute() == 10 {
			return 0, astro.ErrUndefinedPosition
		}
		return 1.2, nil
	}}
	got, err := newTestEngine(t, p).Airmass(context.Background(), tel("a"), m22, []intervals.Interval{iv(at(1, 0, 0), at(1, 30, 0))})
	if err != nil {
		t.Fatalf("Airmass() error = %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("got %d samples, want 2", got.Len())
	}

	p.airmass = func(time.Time) (float64, error) { return 0, errors.New("boom") }
	if _, err := newTestEngine(t, p).Airmass(context.Background(), tel("a"), m22, []intervals.Interval{iv(at(1, 0, 0), at(1, 30, 0))}); err == nil {
		t.Error("expected provider error")
	}
}

func TestEngine_LocalProviderScenario(t *testing.T) {
	e := NewEngine(ephemLocal(), zerolog.Nop(), nil)

	res, err := e.Intervals(context.Background(), tel("coj"), m22, day, nextDay, DefaultLimits())
	if err != nil {
		t.Fatalf("Intervals() error = %v", err)
	}
	if len(res.Intervals) != 1 {
		t.Fatalf("got %v, want one interval", res.Intervals)
	}
	// The in-process ephemeris lands within a few seconds of the
	// reference boundaries.
	wantStart := at(17, 29, 9).Add(80298 * time.Microsecond)
	wantEnd := at(19, 0, 37).Add(291560 * time.Microsecond)
	if !near(res.Intervals[0].Start, wantStart, 10*time.Second) || !near(res.Intervals[0].End, wantEnd, 10*time.Second) {
		t.Errorf("interval = %v, want [%v, %v] ±10s", res.Intervals[0], wantStart, wantEnd)
	}

	series, err := e.Airmass(context.Background(), tel("coj"), m22, res.Intervals)
	if err != nil {
		t.Fatalf("Airmass() error = %v", err)
	}
	if want := int(res.Intervals[0].Duration() / AirmassStep); series.Len() != want {
		t.Errorf("got %d samples, want %d", series.Len(), want)
	}
	for i, am := range series.Airmasses {
		if am < 1 || am > 2.0001 {
			t.Errorf("airmass[%d] = %v outside [1, 2]", i, am)
		}
	}

	limits := DefaultLimits()
	limits.MaxAirmass = 1
	res, err = e.Intervals(context.Background(), tel("coj"), m22, day, nextDay, limits)
	if err != nil || len(res.Intervals) != 0 {
		t.Errorf("max airmass 1: got %v, %v; want empty", res.Intervals, err)
	}
}
