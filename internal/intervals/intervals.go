// Package intervals provides set algebra over half-open time intervals.
package intervals

import (
	"sort"
	"time"
)

// Interval is a time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Empty reports whether the interval covers no time.
func (iv Interval) Empty() bool {
	return !iv.End.After(iv.Start)
}

// Contains reports whether t lies within [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Coalesce returns the union of the given intervals as a sorted list of
// disjoint intervals. Two intervals merge when one's end is at or after the
// other's start, so touching intervals become one. Empty intervals are
// dropped. The input slice is not modified.
func Coalesce(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, 0, len(in))
	for _, iv := range in {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if !last.End.Before(iv.Start) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Intersect returns the intervals covered by both a and b.
func Intersect(a, b []Interval) []Interval {
	a = Coalesce(a)
	b = Coalesce(b)

	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := later(a[i].Start, b[j].Start)
		end := earlier(a[i].End, b[j].End)
		if end.After(start) {
			out = append(out, Interval{Start: start, End: end})
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// Clip restricts every interval to the window [start, end).
func Clip(in []Interval, start, end time.Time) []Interval {
	return Intersect(in, []Interval{{Start: start, End: end}})
}

// Total returns the summed duration of the intervals.
func Total(in []Interval) time.Duration {
	var d time.Duration
	for _, iv := range Coalesce(in) {
		d += iv.Duration()
	}
	return d
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
