package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"

	MetricNameQuestsCreated         = "quests_created_total"
	MetricNameQuestsClosed          = "quests_closed_total"
	MetricNameRosterJoins           = "roster_joins_total"
	MetricNameRosterLeaves          = "roster_leaves_total"
	MetricNameRosterPromotions      = "roster_promotions_total"
	MetricNameSystemsUnresolved     = "systems_unresolved_total"
	MetricNameApplicationsThrottled = "applications_throttled_total"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"

	HelpTextQuestsCreated         = "Total number of quests registered"
	HelpTextQuestsClosed          = "Total number of quests completed or cancelled"
	HelpTextRosterJoins           = "Total number of roster and waitlist joins"
	HelpTextRosterLeaves          = "Total number of roster and waitlist departures"
	HelpTextRosterPromotions      = "Total number of waitlist promotions"
	HelpTextSystemsUnresolved     = "Total number of quests registered with an unresolved game system"
	HelpTextApplicationsThrottled = "Total number of rate-limited quest applications"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelPlacement = "placement"
)

// HTTPLatencyBuckets covers sub-millisecond lookups through slow storage writes.
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
