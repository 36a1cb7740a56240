// Package metrics implements ports.Metrics with Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
)

const namespace = "bowersync"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus records operation outcomes and the latest dependency status on
// its own registry.
type Prometheus struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	declared   *prometheus.GaugeVec
	diff       *prometheus.GaugeVec
	inSync     prometheus.Gauge
	updated    prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Prometheus {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Prometheus{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Manifest operations by name and result.",
		}, []string{"operation", "result"}),
		declared: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "declared_dependencies",
			Help:      "Dependencies declared in the manifest by type.",
		}, []string{"type"}),
		diff: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "diff_packages",
			Help:      "Packages in each reconciliation bucket.",
		}, []string{"bucket"}),
		inSync: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "in_sync",
			Help:      "1 when the manifest matches the installed packages.",
		}),
		updated: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status_updated_timestamp_seconds",
			Help:      "Unix time of the last status update.",
		}),
	}
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ObserveOperation counts one run of op.
func (p *Prometheus) ObserveOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.operations.WithLabelValues(op, result).Inc()
}

// ObserveStatus records the sizes of the snapshot and the diff.
func (p *Prometheus) ObserveStatus(status domain.Status) {
	p.declared.WithLabelValues(domain.Production.String()).Set(float64(len(status.Dependencies.Dependencies)))
	p.declared.WithLabelValues(domain.Development.String()).Set(float64(len(status.Dependencies.DevDependencies)))

	p.diff.WithLabelValues("missing").Set(float64(len(status.Diff.Missing)))
	p.diff.WithLabelValues("untracked").Set(float64(len(status.Diff.Untracked)))
	p.diff.WithLabelValues("versionOutOfSync").Set(float64(len(status.Diff.VersionOutOfSync)))

	if status.InSync() {
		p.inSync.Set(1)
	} else {
		p.inSync.Set(0)
	}
	if !status.UpdatedAt.IsZero() {
		p.updated.Set(float64(status.UpdatedAt.Unix()))
	}
}
