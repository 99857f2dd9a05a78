package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		total time.Duration
		want  coverageTier
	}{
		{0, coverageNone},
		{30 * time.Minute, coverageLow},
		{time.Hour, coverageMedium},
		{4 * time.Hour, coverageHigh},
	}
	for _, tt := range tests {
		if got := tierFor(tt.total); got != tt.want {
			t.Errorf("tierFor(%v) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestRenderTelescopeList(t *testing.T) {
	results := loaded().results
	out := RenderTelescopeList(results, 1)

	lines := strings.Split(out, "\n")
	if len(lines) != len(results) {
		t.Fatalf("got %d lines, want %d", len(lines), len(results))
	}
	if !strings.Contains(lines[1], "▶") || strings.Contains(lines[0], "▶") {
		t.Error("selection marker should be on the second line only")
	}
	if !strings.Contains(lines[0], "4:00") || !strings.Contains(lines[0], "2 intervals") {
		t.Errorf("first line should summarize coverage, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "position undefined") {
		t.Errorf("unsolvable telescope line = %q", lines[2])
	}

	if got := RenderTelescopeList(nil, 0); !strings.Contains(got, "No telescopes") {
		t.Errorf("empty list = %q", got)
	}
}

func TestRenderPlanPanel(t *testing.T) {
	r := visibility.Result{Telescope: "lco.coj.1m0a", Intervals: []intervals.Interval{span(1, 2), span(8, 10), span(17, 19)}}
	out := RenderPlanPanel(r, day.Add(9*time.Hour))

	for _, want := range []string{"PAST", "NOW", "NEXT", "ends in 1h", "Next window in 8h"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}

	empty := RenderPlanPanel(visibility.Result{Telescope: "lco.lsc.1m0a"}, day)
	if !strings.Contains(empty, "never observable") {
		t.Errorf("empty panel = %q", empty)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "now"},
		{45 * time.Second, "45s"},
		{12 * time.Minute, "12m"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.d); got != tt.want {
			t.Errorf("formatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestAirmassQuality(t *testing.T) {
	tests := []struct {
		airmass, max, want float64
	}{
		{1, 2, 1},
		{2, 2, 0},
		{1.5, 2, 0.5},
		{3, 2, 0},
		{1.2, 1, 1},
	}
	for _, tt := range tests {
		if got := airmassQuality(tt.airmass, tt.max); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("airmassQuality(%v, %v) = %v, want %v", tt.airmass, tt.max, got, tt.want)
		}
	}
}

func TestResampleAirmass(t *testing.T) {
	if got := resampleAirmass(nil, 10); got != nil {
		t.Errorf("nil input: got %v", got)
	}

	short := []float64{1.1, 1.2}
	if got := resampleAirmass(short, 10); len(got) != 2 {
		t.Errorf("short series should keep its length, got %v", got)
	}

	long := make([]float64, 100)
	for i := range long {
		long[i] = 1 + float64(i)/100
	}
	got := resampleAirmass(long, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if math.Abs(got[0]-1.045) > 1e-9 {
		t.Errorf("first bucket = %v, want mean of first ten samples", got[0])
	}
}

func TestRenderAirmassSparkline(t *testing.T) {
	s := loaded().airmass["lco.coj.1m0a"]
	out := RenderAirmassSparkline(s, 2, SparklineWidth)
	if !strings.Contains(out, "min 1.30") || !strings.Contains(out, "2 samples") {
		t.Errorf("sparkline = %q", out)
	}

	if got := RenderAirmassSparkline(visibility.AirmassSeries{}, 2, SparklineWidth); !strings.Contains(got, "No airmass") {
		t.Errorf("empty sparkline = %q", got)
	}
}
