package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CartMutation("add")
	m.CartMutation("add")
	m.CartMutation("dec")
	m.Checkout("sent")
	m.CatalogReload(nil)
	m.CatalogReload(errors.New("bad yaml"))
	m.SetActiveSessions(3)

	if got := testutil.ToFloat64(m.CartMutations.WithLabelValues("add")); got != 2 {
		t.Errorf("add mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues("sent")); got != 1 {
		t.Errorf("sent checkouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CatalogReloads.WithLabelValues("error")); got != 1 {
		t.Errorf("failed reloads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActiveSessions); got != 3 {
		t.Errorf("active sessions = %v, want 3", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.CartMutation("add")
	m.Checkout("sent")
	m.CatalogReload(nil)
	m.SetActiveSessions(1)
}
