package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Mutations        *prometheus.CounterVec
	AuthzFailures    *prometheus.CounterVec
	ReviewsSubmitted prometheus.Counter
	EthicalChecks    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fairtrace_mutations_total",
			Help: "Committed mutations by store and operation",
		}, []string{"store", "op"}),
		AuthzFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fairtrace_authz_failures_total",
			Help: "Rejected admin-gated calls by store",
		}, []string{"store"}),
		ReviewsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fairtrace_reviews_submitted_total",
			Help: "Product reviews accepted",
		}),
		EthicalChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fairtrace_ethical_checks_total",
			Help: "Consumer ethical predicate evaluations",
		}),
	}
}

func (m *Metrics) RecordMutation(store, op string) {
	m.Mutations.WithLabelValues(store, op).Inc()
}

func (m *Metrics) RecordAuthzFailure(store string) {
	m.AuthzFailures.WithLabelValues(store).Inc()
}
