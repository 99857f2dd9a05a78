package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-skywindow/internal/target"
	"github.com/litescript/ls-skywindow/internal/validate"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

// msgDatetimeFormat is reported for unparsable --start/--end values.
const msgDatetimeFormat = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."

// Accepted datetime layouts; zoneless forms are UTC.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDatetime(s string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// windowFlags are the --start/--end/--telescopes flags.
type windowFlags struct {
	start      string
	end        string
	telescopes []string
}

func (w *windowFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&w.start, "start", "", "Window start (RFC 3339, UTC when no offset)")
	fs.StringVar(&w.end, "end", "", "Window end (RFC 3339, UTC when no offset)")
	fs.StringSliceVar(&w.telescopes, "telescopes", nil, "Telescope ids (default: all)")
}

// parse fills the times it can parse. Unset flags stay zero so that
// validation reports them as required.
func (w *windowFlags) parse(fs *pflag.FlagSet) (start, end time.Time, errs validate.Errors) {
	errs = validate.Errors{}
	for _, f := range []struct {
		name string
		raw  string
		dst  *time.Time
	}{{"start", w.start, &start}, {"end", w.end, &end}} {
		if !fs.Changed(f.name) {
			continue
		}
		t, ok := parseDatetime(strings.TrimSpace(f.raw))
		if !ok {
			errs.Add(f.name, msgDatetimeFormat)
			continue
		}
		*f.dst = t
	}
	return start, end, errs
}

// floatFlag binds one optional query field to a float flag.
type floatFlag struct {
	name  string
	usage string
	dst   func(*visibility.Query) **float64
	value float64
}

// queryFlags collects a visibility query from flags or a YAML file.
type queryFlags struct {
	window windowFlags
	file   string
	floats []*floatFlag
}

func newQueryFlags() *queryFlags {
	q := &queryFlags{}
	add := func(name, usage string, dst func(*visibility.Query) **float64) {
		q.floats = append(q.floats, &floatFlag{name: name, usage: usage, dst: dst})
	}

	add("max-airmass", "Maximum airmass [1, 25] (default 2.0)", func(q *visibility.Query) **float64 { return &q.MaxAirmass })
	add("max-lunar-phase", "Maximum lunar illumination [0, 1] (default 1.0)", func(q *visibility.Query) **float64 { return &q.MaxLunarPhase })
	add("min-lunar-distance", "Minimum lunar distance in degrees [0, 180]", func(q *visibility.Query) **float64 { return &q.MinLunarDistance })

	add("ra", "Right ascension (deg)", func(q *visibility.Query) **float64 { return &q.RA })
	add("dec", "Declination (deg)", func(q *visibility.Query) **float64 { return &q.Dec })
	add("proper-motion-ra", "Proper motion in RA (mas/yr)", func(q *visibility.Query) **float64 { return &q.ProperMotionRA })
	add("proper-motion-dec", "Proper motion in Dec (mas/yr)", func(q *visibility.Query) **float64 { return &q.ProperMotionDec })
	add("parallax", "Parallax (mas)", func(q *visibility.Query) **float64 { return &q.Parallax })
	add("epoch", "Coordinate epoch (Julian year)", func(q *visibility.Query) **float64 { return &q.Epoch })

	add("epoch-of-elements", "Epoch of elements (MJD)", func(q *visibility.Query) **float64 { return &q.EpochOfElements })
	add("epoch-of-perihelion", "Epoch of perihelion (MJD)", func(q *visibility.Query) **float64 { return &q.EpochOfPerihelion })
	add("orbital-inclination", "Orbital inclination (deg)", func(q *visibility.Query) **float64 { return &q.OrbitalInclination })
	add("longitude-of-ascending-node", "Longitude of ascending node (deg)", func(q *visibility.Query) **float64 { return &q.LongitudeOfAscendingNode })
	add("longitude-of-perihelion", "Longitude of perihelion (deg)", func(q *visibility.Query) **float64 { return &q.LongitudeOfPerihelion })
	add("argument-of-perihelion", "Argument of perihelion (deg)", func(q *visibility.Query) **float64 { return &q.ArgumentOfPerihelion })
	add("mean-distance", "Mean distance (AU)", func(q *visibility.Query) **float64 { return &q.MeanDistance })
	add("perihelion-distance", "Perihelion distance (AU)", func(q *visibility.Query) **float64 { return &q.PerihelionDistance })
	add("eccentricity", "Eccentricity", func(q *visibility.Query) **float64 { return &q.Eccentricity })
	add("mean-anomaly", "Mean anomaly (deg)", func(q *visibility.Query) **float64 { return &q.MeanAnomaly })
	add("daily-motion", "Daily motion (deg/day)", func(q *visibility.Query) **float64 { return &q.DailyMotion })
	return q
}

func (q *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	q.window.register(fs)
	fs.StringVarP(&q.file, "query", "f", "", "Read the query from a YAML file; flags override its fields")
	for _, f := range q.floats {
		fs.Float64Var(&f.value, f.name, 0, f.usage)
	}
}

// build assembles the query. Only flags the user set count as supplied.
func (q *queryFlags) build(fs *pflag.FlagSet) (visibility.Query, validate.Errors, error) {
	var query visibility.Query
	if q.file != "" {
		data, err := os.ReadFile(q.file)
		if err != nil {
			return query, nil, fmt.Errorf("read query: %w", err)
		}
		if err := yaml.Unmarshal(data, &query); err != nil {
			return query, nil, fmt.Errorf("parse query %s: %w", q.file, err)
		}
	}

	start, end, errs := q.window.parse(fs)
	if fs.Changed("start") {
		query.Start = start
	}
	if fs.Changed("end") {
		query.End = end
	}
	if fs.Changed("telescopes") {
		query.Telescopes = q.window.telescopes
	}
	for _, f := range q.floats {
		if fs.Changed(f.name) {
			*f.dst(&query) = target.Float(f.value)
		}
	}
	return query, errs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
