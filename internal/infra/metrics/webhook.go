package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		WebhookRequests,
		WebhookEvents,
	)
}

var (
	// Inbound webhook deliveries by outcome.
	// result: ok|bad_signature|bad_json
	WebhookRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Inbound webhook deliveries by authentication/parse outcome.",
		},
		[]string{"result"},
	)

	// Authenticated events by type and dispatch result.
	// result: dispatched|duplicate|unknown_type|handler_error
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Authenticated webhook events by type and dispatch result.",
		},
		[]string{"event_type", "result"},
	)
)
