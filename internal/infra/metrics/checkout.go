package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		CheckoutCreateRequests,
		CheckoutVerifyRequests,
		CheckoutVerifyDuration,
		CheckoutVerifyAttempts,
	)
}

var (
	// Count of /checkout calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_json|missing_product|no_base_url|upstream|unknown
	CheckoutCreateRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_create_requests_total",
			Help: "Count of /checkout calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Count of /verify-checkout calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): missing_id|upstream|timeout|unknown
	CheckoutVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_verify_requests_total",
			Help: "Count of /verify-checkout calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the verify handler grouped by result. Retries sleep up to
	// ~9s, hence the long tail buckets.
	CheckoutVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_verify_duration_seconds",
			Help:    "Duration of /verify-checkout handler in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"result"},
	)

	// Upstream status lookups per verify call, grouped by final status.
	CheckoutVerifyAttempts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_verify_attempts",
			Help:    "Platform status lookups performed per verify call.",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"status"},
	)
)
