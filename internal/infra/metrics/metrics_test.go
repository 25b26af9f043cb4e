package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_OrderEvent(t *testing.T) {
	m := New()
	m.OrderEvent("advance", "paid")
	m.OrderEvent("advance", "paid")
	m.OrderEvent("cancel", "cancelled")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.orderEvents.WithLabelValues("advance", "paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderEvents.WithLabelValues("cancel", "cancelled")))
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/products", 200, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}
