// Package metrics holds the Prometheus collectors for visibility
// computations.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeUnsolvable = "unsolvable"
	OutcomeError      = "error"
)

// Collector bundles the computation metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Computations     *prometheus.CounterVec
	ComputeDuration  *prometheus.HistogramVec
	MovingViolations prometheus.Counter
	AirmassSamples   prometheus.Counter
	Telescopes       prometheus.Gauge
}

// New registers the collectors against reg. A nil reg uses a fresh
// registry.
func New(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	computations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skywindow_computations_total",
		Help: "Per-telescope computations, labeled by mode and outcome.",
	}, []string{"mode", "outcome"}), "skywindow_computations_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skywindow_compute_duration_seconds",
		Help:    "Per-telescope computation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"mode"}), "skywindow_compute_duration_seconds")
	if err != nil {
		return nil, err
	}

	moving, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skywindow_moving_violations_total",
		Help: "Non-sidereal targets whose position was undefined over the whole window.",
	}), "skywindow_moving_violations_total")
	if err != nil {
		return nil, err
	}

	samples, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skywindow_airmass_samples_total",
		Help: "Airmass samples produced.",
	}), "skywindow_airmass_samples_total")
	if err != nil {
		return nil, err
	}

	telescopes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skywindow_request_telescopes",
		Help: "Number of telescopes in the most recent request.",
	}), "skywindow_request_telescopes")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         reg,
		Computations:     computations,
		ComputeDuration:  duration,
		MovingViolations: moving,
		AirmassSamples:   samples,
		Telescopes:       telescopes,
	}, nil
}

// ObserveComputation records one per-telescope computation.
func (c *Collector) ObserveComputation(mode, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Computations.WithLabelValues(mode, outcome).Inc()
	c.ComputeDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if outcome == OutcomeUnsolvable {
		c.MovingViolations.Inc()
	}
}

// AddSamples counts produced airmass samples.
func (c *Collector) AddSamples(n int) {
	if c == nil {
		return
	}
	c.AirmassSamples.Add(float64(n))
}

// SetTelescopes records the fan-out width of a request.
func (c *Collector) SetTelescopes(n int) {
	if c == nil {
		return
	}
	c.Telescopes.Set(float64(n))
}

// WriteTextfile writes the current values in the node_exporter textfile
// format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
