// Package metrics counts scored and absent entities per backend and group
// and exports them in the Prometheus text format.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry; a nil *Recorder records nothing.
type Recorder struct {
	reg      *prometheus.Registry
	scored   *prometheus.CounterVec
	absent   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the foldbench collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foldbench_entities_scored_total",
			Help: "Entities with a parsed score.",
		}, []string{"backend", "group"}),
		absent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foldbench_entities_absent_total",
			Help: "Entities excluded from a table, by reason.",
		}, []string{"backend", "group", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foldbench_tool_duration_seconds",
			Help:    "Wall time of one scoring tool invocation.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		}, []string{"backend"}),
	}
	r.reg.MustRegister(r.scored, r.absent, r.duration)
	return r
}

func (r *Recorder) Scored(backend, group string) {
	if r == nil {
		return
	}
	r.scored.WithLabelValues(backend, group).Inc()
}

func (r *Recorder) Absent(backend, group, reason string) {
	if r == nil {
		return
	}
	r.absent.WithLabelValues(backend, group, reason).Inc()
}

func (r *Recorder) ObserveTool(backend string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(backend).Observe(d.Seconds())
}

// Gatherer exposes the registry for tests and custom exporters.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile atomically writes the current values to path, in the format
// read by the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return errors.Wrapf(err, "write metrics %s", path)
	}
	return nil
}
