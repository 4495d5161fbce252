package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Board Metrics
var (
	QuestsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameQuestsCreated,
			Help: HelpTextQuestsCreated,
		},
	)

	QuestsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameQuestsClosed,
			Help: HelpTextQuestsClosed,
		},
		[]string{LabelStatus},
	)

	RosterJoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRosterJoins,
			Help: HelpTextRosterJoins,
		},
		[]string{LabelPlacement},
	)

	RosterLeaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRosterLeaves,
			Help: HelpTextRosterLeaves,
		},
		[]string{LabelPlacement},
	)

	RosterPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRosterPromotions,
			Help: HelpTextRosterPromotions,
		},
	)

	SystemsUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSystemsUnresolved,
			Help: HelpTextSystemsUnresolved,
		},
	)

	ApplicationsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameApplicationsThrottled,
			Help: HelpTextApplicationsThrottled,
		},
	)
)
