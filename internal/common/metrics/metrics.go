// Package metrics holds the Prometheus collectors exposed on /metrics by both services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giveaway_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giveaway_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Entry Collector

	GiveawaysOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_opened_total",
		Help: "Giveaways opened by the collector",
	})

	GiveawaysConcluded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giveaway_concluded_total",
		Help: "Giveaways concluded, by trigger (expired, ended_early)",
	}, []string{"reason"})

	OpenGiveaways = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "giveaway_open",
		Help: "Giveaways currently open",
	})

	EntriesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_entries_recorded_total",
		Help: "Unique entries accepted",
	})

	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giveaway_webhook_deliveries_total",
		Help: "Conclusion webhook deliveries by result",
	}, []string{"result"})

	// Settings Orchestrator

	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giveaway_webhooks_received_total",
		Help: "Conclusion webhooks received by result (processed, rejected, ignored)",
	}, []string{"result"})

	LoopRestarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giveaway_loop_restarts_total",
		Help: "Loop re-creates by result",
	}, []string{"result"})

	LotteryDraws = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_lottery_draws_total",
		Help: "Weighted draws performed",
	})

	Announcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giveaway_announcements_total",
		Help: "Chat announcements by sending identity and result",
	}, []string{"identity", "result"})
)

// ObserveHTTPRequest records one finished request.
func ObserveHTTPRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// Result maps an error to a "success"/"failure" label.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
