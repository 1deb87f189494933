// Package metrics records compile outcomes as Prometheus metrics.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "bsp"

var _ ports.Metrics = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements ports.Metrics using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	backendDuration *prom.HistogramVec
	backendResults  *prom.CounterVec
	targetDuration  prom.Histogram
	targetResults   *prom.CounterVec
	compileDuration prom.Histogram
	compileResults  *prom.CounterVec
	mergeConflicts  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		backendDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_duration_seconds",
			Help:      "Duration of backend compile invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"backend"}),
		backendResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "backend_results_total",
			Help:      "Backend compile invocations by status",
		}, []string{"backend", "status"}),
		targetDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "target_duration_seconds",
			Help:      "Duration of per-target compiles",
			Buckets:   prom.DefBuckets,
		}),
		targetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "target_results_total",
			Help:      "Per-target compiles by status",
		}, []string{"status"}),
		compileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of compile requests",
			Buckets:   prom.DefBuckets,
		}),
		compileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compile_results_total",
			Help:      "Compile requests by status",
		}, []string{"status"}),
		mergeConflicts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "merge_conflicts_total",
			Help:      "Output tree merge conflicts by scope",
		}, []string{"scope"}),
	}
	reg.MustRegister(
		pr.backendDuration, pr.backendResults,
		pr.targetDuration, pr.targetResults,
		pr.compileDuration, pr.compileResults,
		pr.mergeConflicts,
	)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// ObserveBackend records one backend invocation.
func (p *PrometheusRecorder) ObserveBackend(backend string, status domain.StatusCode, d time.Duration) {
	p.backendDuration.WithLabelValues(backend).Observe(d.Seconds())
	p.backendResults.WithLabelValues(backend, status.String()).Inc()
}

// ObserveTarget records one per-target compile.
func (p *PrometheusRecorder) ObserveTarget(status domain.StatusCode, d time.Duration) {
	p.targetDuration.Observe(d.Seconds())
	p.targetResults.WithLabelValues(status.String()).Inc()
}

// ObserveCompile records one compile request.
func (p *PrometheusRecorder) ObserveCompile(status domain.StatusCode, d time.Duration) {
	p.compileDuration.Observe(d.Seconds())
	p.compileResults.WithLabelValues(status.String()).Inc()
}

// IncMergeConflict counts a merge conflict in scope.
func (p *PrometheusRecorder) IncMergeConflict(scope string) {
	p.mergeConflicts.WithLabelValues(scope).Inc()
}

// WriteTextfile writes the gathered metrics in the Prometheus text format, for the node
// exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics"), "path", path)
	}
	return nil
}
