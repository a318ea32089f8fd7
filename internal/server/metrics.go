// Package server exposes the Fibonacci calculators over HTTP.
package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fibmatrix_http_active_requests",
		Help: "Number of HTTP requests being served.",
	})
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibmatrix_http_requests_total",
		Help: "HTTP requests served, by path and status code.",
	}, []string{"path", "code"})
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fibmatrix_http_rate_limited_total",
		Help: "HTTP requests rejected by the per-client rate limiter.",
	})
)

// Metrics records server-level Prometheus metrics and serves the registry.
// Calculation metrics live in the fibonacci package.
type Metrics struct {
	handler http.Handler
}

// NewMetrics returns a Metrics serving the default Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

func (m *Metrics) begin() { activeRequests.Inc() }

func (m *Metrics) end(path string, code int) {
	activeRequests.Dec()
	totalRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.handler.ServeHTTP(w, r)
}
