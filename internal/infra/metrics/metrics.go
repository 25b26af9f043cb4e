package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// アプリのcollector一式
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	orderEvents  *prometheus.CounterVec
}

// Newは専用registryにcollectorを登録する。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecadmin",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecadmin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		orderEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecadmin",
			Name:      "order_events_total",
			Help:      "Committed order mutations by event and resulting status.",
		}, []string{"event", "status"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.orderEvents,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderEventはcommit後に呼ぶ（create/update/cancel/advance）
func (m *Metrics) OrderEvent(event, status string) {
	m.orderEvents.WithLabelValues(event, status).Inc()
}
