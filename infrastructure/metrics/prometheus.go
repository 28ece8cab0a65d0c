// Package metrics provides a Prometheus implementation of ports.Recorder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

const namespace = "meshfx"

// Recorder records runtime measurements as Prometheus metrics.
type Recorder struct {
	actions       *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
	suiteCalls    *prometheus.CounterVec
	openMeshes    *prometheus.GaugeVec
}

var _ ports.Recorder = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
// Registration fails if reg already holds collectors with the same names.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Main entry calls by plugin, action and returned status.",
		}, []string{"plugin", "action", "status"}),
		actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent handling main entry calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"plugin", "action"}),
		suiteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suite_calls_total",
			Help:      "Host suite calls by suite, method and returned status.",
		}, []string{"suite", "method", "status"}),
		openMeshes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_meshes",
			Help:      "Meshes acquired from the host and not yet released.",
		}, []string{"plugin"}),
	}

	for _, c := range []prometheus.Collector{r.actions, r.actionLatency, r.suiteCalls, r.openMeshes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveAction implements ports.Recorder.
func (r *Recorder) ObserveAction(plugin string, action entities.Action, status entities.Status, elapsed time.Duration) {
	r.actions.WithLabelValues(plugin, action.String(), status.String()).Inc()
	r.actionLatency.WithLabelValues(plugin, action.String()).Observe(elapsed.Seconds())
}

// ObserveSuiteCall implements ports.Recorder.
func (r *Recorder) ObserveSuiteCall(suite, method string, status entities.Status) {
	r.suiteCalls.WithLabelValues(suite, method, status.String()).Inc()
}

// MeshAcquired implements ports.Recorder.
func (r *Recorder) MeshAcquired(plugin string) {
	r.openMeshes.WithLabelValues(plugin).Inc()
}

// MeshReleased implements ports.Recorder.
func (r *Recorder) MeshReleased(plugin string) {
	r.openMeshes.WithLabelValues(plugin).Dec()
}
