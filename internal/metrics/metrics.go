// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters shared by both binaries. The server exposes them on /metrics;
// the client agent only increments its own.
var (
	PollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_polls_total",
		Help: "Full-inventory polls issued by the sync loop, by outcome.",
	}, []string{"outcome"})

	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_mutations_total",
		Help: "Quantity mutation commands sent to the server, by outcome (confirmed, failed, stale).",
	}, []string{"outcome"})

	LowStockItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stocksync_low_stock_items",
		Help: "Items at or below the low-stock threshold in the last snapshot.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_http_requests_total",
		Help: "HTTP requests served, by path and status.",
	}, []string{"path", "status"})

	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_reports_generated_total",
		Help: "PDF movement reports generated.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CountRequest records one served request.
func CountRequest(path string, status int) {
	HTTPRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}
