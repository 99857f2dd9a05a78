package astro

import (
	"math"
	"testing"
	"time"
)

func TestAirmass(t *testing.T) {
	tests := []struct {
		name string
		alt  float64
		want float64
		tol  float64
	}{
		{"zenith", 90, 1.0, 1e-6},
		{"60 degrees", 60, 1.154, 0.002},
		{"30 degrees", 30, 1.995, 0.01},
		{"below horizon", -5, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Airmass(tt.alt, 0)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("Airmass(%v) = %v, want +Inf", tt.alt, got)
				}
				return
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Airmass(%v) = %v, want %v ±%v", tt.alt, got, tt.want, tt.tol)
			}
		})
	}
}

func TestAirmass_Monotonic(t *testing.T) {
	prev := Airmass(90, 3000)
	for alt := 89.5; alt > 0.5; alt -= 0.5 {
		got := Airmass(alt, 3000)
		if got < prev {
			t.Fatalf("airmass decreased from %v to %v at alt %v", prev, got, alt)
		}
		prev = got
	}
	if prev < 20 {
		t.Errorf("airmass near the horizon = %v, want > 20", prev)
	}
}

func TestRefraction_Elevation(t *testing.T) {
	sea := Refraction(10, 0)
	high := Refraction(10, 3000)
	if high >= sea {
		t.Errorf("refraction at 3000 m (%v) should be smaller than at sea level (%v)", high, sea)
	}
	if sea < 0.08 || sea > 0.1 {
		t.Errorf("refraction at 10 degrees = %v, want ~0.09", sea)
	}
}

func TestAirmassAt(t *testing.T) {
	// Sampled values for M22 from coj, starting at the rise through
	// airmass 2 on 2025-03-01.
	want := []float64{1.9987, 1.8810, 1.7782, 1.6880}
	start := time.Date(2025, 3, 1, 17, 29, 9, 80298000, time.UTC)

	for i, w := range want {
		ts := start.Add(time.Duration(i) * 10 * time.Minute)
		got, err := AirmassAt(m22, cojSite.Observer, ts)
		if err != nil {
			t.Fatalf("AirmassAt() error = %v", err)
		}
		if math.Abs(got-w) > 0.005 {
			t.Errorf("airmass at %v = %.4f, want %.4f", ts, got, w)
		}
	}
}
