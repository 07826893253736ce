// Package metrics exposes Prometheus counters for the HTTP surface and the
// stock ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	StockMovements *prometheus.CounterVec
	OrdersCreated  prometheus.Counter
}

// New registers and returns the application metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "editions",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"path", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "editions",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"path"}),
		StockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "editions",
			Name:      "stock_movements_total",
			Help:      "Stock movements posted, by type and outcome.",
		}, []string{"type", "outcome"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editions",
			Name:      "orders_created_total",
			Help:      "Orders created through checkout.",
		}),
	}
	reg.MustRegister(m.Requests, m.LatencyMS, m.StockMovements, m.OrdersCreated)
	return m
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		path := r.URL.Path
		m.Requests.WithLabelValues(path, strconv.Itoa(sw.status)).Inc()
		m.LatencyMS.WithLabelValues(path).Observe(float64(time.Since(start).Milliseconds()))
	})
}
