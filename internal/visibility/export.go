package visibility

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-skywindow/internal/intervals"
)

// Timestamp layouts for exported documents. Fractional seconds are
// written to microsecond precision with trailing zeros trimmed.
const (
	intervalTimeLayout = "2006-01-02T15:04:05.999999Z07:00"
	airmassTimeLayout  = "2006-01-02T15:04:05.999999-07:00"
)

// FormatTime renders t as an RFC 3339 UTC timestamp with a Z suffix.
func FormatTime(t time.Time) string {
	return t.UTC().Format(intervalTimeLayout)
}

// IntervalPairs converts intervals to [start, end] string pairs. The
// result is never nil.
func IntervalPairs(ivs []intervals.Interval) [][2]string {
	out := make([][2]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, [2]string{FormatTime(iv.Start), FormatTime(iv.End)})
	}
	return out
}

// MarshalJSON renders the series as {"times": [...], "airmasses": [...]}.
func (s AirmassSeries) MarshalJSON() ([]byte, error) {
	times := make([]string, len(s.Times))
	for i, t := range s.Times {
		times[i] = t.UTC().Format(airmassTimeLayout)
	}
	airmasses := s.Airmasses
	if airmasses == nil {
		airmasses = []float64{}
	}
	return json.Marshal(struct {
		Times     []string  `json:"times"`
		Airmasses []float64 `json:"airmasses"`
	}{times, airmasses})
}

// WriteIntervalsJSON writes {telescope: [[start, end], ...]}.
func WriteIntervalsJSON(w io.Writer, byTelescope map[string][]intervals.Interval) error {
	doc := make(map[string][][2]string, len(byTelescope))
	for id, ivs := range byTelescope {
		doc[id] = IntervalPairs(ivs)
	}
	return writeJSON(w, doc)
}

// WriteAirmassJSON writes {telescope: {"times": [...], "airmasses": [...]}}.
func WriteAirmassJSON(w io.Writer, byTelescope map[string]AirmassSeries) error {
	return writeJSON(w, byTelescope)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteIntervalsTable writes a human readable per-telescope table, times
// shown in loc.
func WriteIntervalsTable(w io.Writer, results []Result, loc *time.Location, now time.Time) {
	fmt.Fprintf(w, "Visibility @ %s\n", now.In(loc).Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(results) == 0 {
		fmt.Fprintln(w, "No telescopes")
		return
	}

	fmt.Fprintf(w, "%-16s %-6s %-22s %-22s %-8s\n", "Telescope", "Phase", "Start", "End", "Length")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	var total time.Duration
	for _, r := range results {
		if r.Status == StatusUnsolvable {
			fmt.Fprintf(w, "%-16s %s\n", truncateStr(r.Telescope, 16), "position undefined over window")
			continue
		}
		if len(r.Intervals) == 0 {
			fmt.Fprintf(w, "%-16s %s\n", truncateStr(r.Telescope, 16), "never observable")
			continue
		}
		for _, s := range NewPlan(r.Telescope, r.Intervals, now).Slots {
			fmt.Fprintf(w, "%-16s %-6s %-22s %-22s %8s\n",
				truncateStr(r.Telescope, 16),
				s.Phase,
				s.Start.In(loc).Format("2006-01-02 15:04:05"),
				s.End.In(loc).Format("2006-01-02 15:04:05"),
				FormatDuration(s.Duration()),
			)
		}
		total += intervals.Total(r.Intervals)
	}

	fmt.Fprintf(w, "\nTotal observable: %s across %d telescopes\n", FormatDuration(total), len(results))
}

// FormatDuration renders d as H:MM.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
