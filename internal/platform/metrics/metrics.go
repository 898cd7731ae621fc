package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_console"

// REST API metrics
var (
	RESTRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rest_requests_total",
			Help:      "Total number of requests sent to the records API",
		},
		[]string{"entity", "op", "status_code"},
	)

	RESTRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rest_request_duration_seconds",
			Help:      "Records API latency distribution",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"entity", "op"},
	)
)

// List synchronization metrics
var (
	StaleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_stale_responses_total",
			Help:      "List responses discarded because a newer request was issued",
		},
		[]string{"entity"},
	)

	ListFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_failures_total",
			Help:      "List fetches that ended in a failure",
		},
		[]string{"entity", "kind"},
	)
)

// Mutation metrics
var (
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutations by entity, action and result",
		},
		[]string{"entity", "action", "result"},
	)
)

// Websocket metrics
var (
	ViewsOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "views_open",
			Help:      "Currently mounted list views",
		},
		[]string{"entity"},
	)

	OutcomesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_published_total",
			Help:      "Outcomes forwarded to the audit stream",
		},
		[]string{"result"},
	)
)
