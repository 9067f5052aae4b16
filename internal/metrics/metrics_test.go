package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.ObserveRequest("/api/cart", "GET", "200", 0.01)
	m.Checkout("success")
	m.Checkout("success")
	m.CartMutation("remove")
	m.CacheLookup(true)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/cart", "GET", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkouts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartMutations.WithLabelValues("remove")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/", "GET", "200", 1)
		m.Checkout("failed")
		m.CartMutation("add")
		m.CacheLookup(true)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Checkout("empty_selection")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `beluga_checkouts_total{outcome="empty_selection"} 1`)
}
