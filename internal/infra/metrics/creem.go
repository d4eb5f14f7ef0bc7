package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(CreemRequests) }

// Outbound Creem API calls by operation and status class (2xx/4xx/5xx/err).
var CreemRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "creem_requests_total",
		Help: "Outbound Creem API calls by operation and status class.",
	},
	[]string{"op", "status"},
)
