package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"reelcut/internal/command"
)

const (
	OutcomeSuccess      = "success"
	OutcomePrecondition = "precondition"
	OutcomeFailure      = "failure"
)

// Metrics holds the command collectors.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
	last     prometheus.Gauge
}

var _ command.Observer = (*Metrics)(nil)

// New registers the collectors under namespace in a fresh registry.
func New(namespace string) *Metrics {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "reelcut"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "total",
			Help:      "Finished command executions, undos, and redos by outcome.",
		}, []string{"action", "command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "duration_seconds",
			Help:      "Wall time spent running a command.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"action"}),
		last: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "last_event_timestamp_seconds",
			Help:      "Unix time of the most recent command event.",
		}),
	}
	m.registry.MustRegister(m.commands, m.duration, m.last)
	return m
}

// Registry exposes the collectors, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe records one manager event.
func (m *Metrics) Observe(event command.Event) {
	m.commands.WithLabelValues(string(event.Action), event.Name, Outcome(event)).Inc()
	m.duration.WithLabelValues(string(event.Action)).Observe(event.Duration.Seconds())
	if !event.At.IsZero() {
		m.last.Set(float64(event.At.UnixNano()) / 1e9)
	}
}

// Outcome classifies an event for the outcome label.
func Outcome(event command.Event) string {
	switch {
	case event.Success:
		return OutcomeSuccess
	case errors.Is(event.Err, command.ErrPrecondition):
		return OutcomePrecondition
	default:
		return OutcomeFailure
	}
}

// WriteTextfile writes the current values to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("metrics: textfile path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
