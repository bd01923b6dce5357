// Package metrics defines the storefront's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics is the set of counters the storefront updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	CartMutations  *prometheus.CounterVec
	Checkouts      *prometheus.CounterVec
	CatalogReloads *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by action.",
		}, []string{"action"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		CatalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog file reloads by result.",
		}, []string{"result"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.CartMutations, m.Checkouts, m.CatalogReloads, m.ActiveSessions)
	return m
}

// CartMutation counts one applied cart action.
func (m *Metrics) CartMutation(action string) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(action).Inc()
}

// Checkout counts one checkout attempt.
func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

// CatalogReload counts a reload; err decides the result label.
func (m *Metrics) CatalogReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CatalogReloads.WithLabelValues(result).Inc()
}

// SetActiveSessions records how many sessions are cached.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
