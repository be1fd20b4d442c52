package handlers

import "github.com/prometheus/client_golang/prometheus"

// webhookEvents counts processed webhooks by route and business outcome
// (tagged, confirmed, ignored, error). The HTTP middleware already counts
// by status code; this counter answers the domain question of how many
// deliveries actually resulted in a tag or a confirmation.
var webhookEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cod_webhook_events_total",
		Help: "Total number of MSG91 webhook events by route and outcome.",
	},
	[]string{"route", "outcome"},
)

func init() {
	prometheus.MustRegister(webhookEvents)
}
