package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	attributions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "referral_bot",
			Subsystem: "referrals",
			Name:      "attributions_total",
			Help:      "First-contact attributions by outcome.",
		},
		[]string{"outcome"},
	)

	credits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "referral_bot",
			Subsystem: "referrals",
			Name:      "credits_total",
			Help:      "Referral credit attempts by result.",
		},
		[]string{"result"},
	)

	subscriptionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "referral_bot",
			Subsystem: "subscription",
			Name:      "checks_total",
			Help:      "Channel membership checks by result.",
		},
		[]string{"result"},
	)

	botUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "referral_bot",
			Subsystem: "bot",
			Name:      "updates_total",
			Help:      "Telegram updates handled by route.",
		},
		[]string{"route"},
	)
)

func init() {
	Registry.MustRegister(
		attributions,
		credits,
		subscriptionChecks,
		botUpdates,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordAttribution(outcome string) {
	attributions.WithLabelValues(outcome).Inc()
}

func RecordCredit(result string) {
	credits.WithLabelValues(result).Inc()
}

func RecordSubscriptionCheck(result string) {
	subscriptionChecks.WithLabelValues(result).Inc()
}

func RecordBotUpdate(route string) {
	botUpdates.WithLabelValues(route).Inc()
}
