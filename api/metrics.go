package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp/rental-engine/contracts"
	"github.com/warp/rental-engine/tasks"
)

// Classification and HTTP metrics
var (
	// contractsClassifiedTotal counts classified contract rows.
	// Labels:
	//   - state: Lifecycle state (e.g., "ACTIVO", "FINALIZADO")
	//   - degraded: "true" when the range is missing or malformed
	contractsClassifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_contracts_classified_total",
			Help: "Total number of contract rows classified, by state",
		},
		[]string{"state", "degraded"},
	)

	// tasksBucketedTotal counts tasks placed into buckets.
	// Labels:
	//   - bucket: Bucket name (e.g., "Hoy", "EsteMes")
	//   - mode: "active" or "archive"
	tasksBucketedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_tasks_bucketed_total",
			Help: "Total number of tasks grouped, by bucket and mode",
		},
		[]string{"bucket", "mode"},
	)

	// rowsRejectedTotal counts rows degraded to an error.
	// Labels:
	//   - kind: "contract" or "task"
	rowsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_rows_rejected_total",
			Help: "Total number of request rows that could not be classified",
		},
		[]string{"kind"},
	)

	// httpRequestDuration records handler latency.
	// Labels:
	//   - route: chi route pattern (e.g., "/api/scenarios/{id}")
	//   - method: HTTP method
	//   - status: Response status code
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"route", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(contractsClassifiedTotal)
	prometheus.MustRegister(tasksBucketedTotal)
	prometheus.MustRegister(rowsRejectedTotal)
	prometheus.MustRegister(httpRequestDuration)
}

func recordContractState(s contracts.State, degraded bool) {
	contractsClassifiedTotal.WithLabelValues(string(s), strconv.FormatBool(degraded)).Inc()
}

func recordTaskBucket(b tasks.Bucket, mode tasks.Mode, n int) {
	tasksBucketedTotal.WithLabelValues(string(b), string(mode)).Add(float64(n))
}

func recordRejected(kind string) {
	rowsRejectedTotal.WithLabelValues(kind).Inc()
}

func recordRequest(route, method string, status int, seconds float64) {
	httpRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(seconds)
}
