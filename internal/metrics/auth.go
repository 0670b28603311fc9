package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuthMetrics holds Prometheus metrics for the authentication flows.
type AuthMetrics struct {
	Logins         *prometheus.CounterVec
	TokenRotations *prometheus.CounterVec
	Registrations  prometheus.Counter
}

// NewAuthMetrics creates and registers authentication metrics on the given registry.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),
		TokenRotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rotations_total",
			Help:      "Total number of refresh token rotations, by result.",
		}, []string{"result"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of successful registrations.",
		}),
	}

	reg.MustRegister(m.Logins, m.TokenRotations, m.Registrations)
	return m
}
