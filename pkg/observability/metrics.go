// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the coursewise API.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets for CRUD request latencies, widened
// at the top end to cover bcrypt-gated authentication paths.
var APIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

var (
	// RequestsTotal counts all HTTP requests by method and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursewise_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursewise_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// AuthFailuresTotal counts rejected authentication attempts by internal
	// reason. The reason is a metrics label only; responses stay uniform.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursewise_auth_failures_total",
			Help: "Authentication failures",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
	)
}

// RegisterHashLaneDepth exposes the password hash lane's in-flight count
// as the coursewise_hash_lane_depth gauge. Called once at bootstrap with
// a closure over the process's hasher.
func RegisterHashLaneDepth(inFlight func() float64) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "coursewise_hash_lane_depth",
			Help: "In-flight password hash computations",
		},
		inFlight,
	))
}
