package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AssetsByStatus is the number of stored assets per status, refreshed by the scheduler.
	AssetsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assets_by_status",
			Help: "Number of assets per lifecycle status",
		},
		[]string{"status"},
	)

	// AssetTransitionsTotal counts committed status changes.
	AssetTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_transitions_total",
			Help: "Total number of asset status transitions",
		},
		[]string{"from", "to"},
	)
)

var (
	idPathSegment = regexp.MustCompile(`/([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AssetsByStatus, AssetTransitionsTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric and UUID path segments with {id}.
// E.g. /api/assets/6f1c...-.../assign -> /api/assets/{id}/assign.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}$2")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetAssetsByStatus publishes the latest per-status counts. Statuses missing from counts are set to 0.
func SetAssetsByStatus(statuses []string, counts map[string]int) {
	for _, s := range statuses {
		AssetsByStatus.WithLabelValues(s).Set(float64(counts[s]))
	}
}

// IncAssetTransition counts one status change.
func IncAssetTransition(from, to string) {
	AssetTransitionsTotal.WithLabelValues(from, to).Inc()
}
