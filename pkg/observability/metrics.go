package observability

import (
	"net/http"

	"github.com/aretw0/fomod/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records wizard activity as Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	sessions   *prometheus.CounterVec
	steps      *prometheus.CounterVec
	selections *prometheus.CounterVec
	planFiles  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fomod_sessions_loaded_total",
				Help: "Total number of wizard sessions started",
			},
			[]string{"module"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fomod_steps_entered_total",
				Help: "Total number of times the cursor arrived on a step",
			},
			[]string{"module", "step"},
		),
		selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fomod_selections_total",
				Help: "Select and deselect calls, by outcome",
			},
			[]string{"module", "result"},
		),
		planFiles: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fomod_plan_files",
				Help:    "Number of entries in resolved install plans",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"module"},
		),
	}
	m.registry.MustRegister(m.sessions, m.steps, m.selections, m.planFiles)
	return m
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionLoaded: func(e *domain.SessionEvent) {
			m.sessions.WithLabelValues(e.Module).Inc()
		},
		OnStepEnter: func(e *domain.StepEvent) {
			m.steps.WithLabelValues(e.Module, e.Step).Inc()
		},
		OnSelectionChanged: func(e *domain.SelectionEvent) {
			m.selections.WithLabelValues(e.Module, "accepted").Inc()
		},
		OnSelectionRejected: func(e *domain.SelectionEvent) {
			m.selections.WithLabelValues(e.Module, "rejected").Inc()
		},
		OnPlanResolved: func(e *domain.PlanEvent) {
			m.planFiles.WithLabelValues(e.Module).Observe(float64(e.Files))
		},
	}
}
