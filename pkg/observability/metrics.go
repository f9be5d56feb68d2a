package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/formwork-dev/formwork/pkg/domain"
)

// Metrics bundles the Prometheus collectors for the evaluation engine.
type Metrics struct {
	Evaluations     prometheus.Counter
	Duration        prometheus.Histogram
	SectionsInvalid *prometheus.CounterVec
	PathsPruned     *prometheus.CounterVec
}

// NewMetrics creates the engine collectors. They still need to be added to
// a registry via Register or MustRegister.
func NewMetrics() *Metrics {
	return &Metrics{
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formwork_evaluations_total",
			Help: "Total number of workflow state evaluations",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "formwork_evaluation_duration_seconds",
			Help: "Duration of workflow state evaluations",
		}),
		SectionsInvalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formwork_sections_invalid_total",
			Help: "Evaluations in which a section was found invalid",
		}, []string{"section"}),
		PathsPruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formwork_data_paths_pruned_total",
			Help: "Data paths cleared because their applicability conditions failed",
		}, []string{"node"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Evaluations, m.Duration, m.SectionsInvalid, m.PathsPruned}
}

// Register adds every collector to the registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister adds every collector to the registry, panicking on conflict.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.collectors()...)
}

// Hooks returns lifecycle callbacks that feed the collectors. Pass them to
// the engine, combining with JoinHooks when other callbacks exist.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluation: func(ctx context.Context, e *domain.EvaluationEvent) {
			m.Evaluations.Inc()
			m.Duration.Observe(e.Duration.Seconds())
		},
		OnSection: func(ctx context.Context, e *domain.SectionEvent) {
			if e.Status == domain.SectionInvalid {
				m.SectionsInvalid.WithLabelValues(e.SectionID).Inc()
			}
		},
		OnPrune: func(ctx context.Context, e *domain.PruneEvent) {
			m.PathsPruned.WithLabelValues(e.NodePath).Inc()
		},
	}
}

// JoinHooks fans one event out to several hook sets, in order.
func JoinHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluation: func(ctx context.Context, e *domain.EvaluationEvent) {
			for _, h := range hooks {
				if h.OnEvaluation != nil {
					h.OnEvaluation(ctx, e)
				}
			}
		},
		OnSection: func(ctx context.Context, e *domain.SectionEvent) {
			for _, h := range hooks {
				if h.OnSection != nil {
					h.OnSection(ctx, e)
				}
			}
		},
		OnPrune: func(ctx context.Context, e *domain.PruneEvent) {
			for _, h := range hooks {
				if h.OnPrune != nil {
					h.OnPrune(ctx, e)
				}
			}
		},
	}
}
