package tracing

// Span attribute keys set on backend request spans.
const (
	AttrHTTPMethod      = "http.request.method"
	AttrHTTPStatusCode  = "http.response.status_code"
	AttrURLPath         = "url.path"
	AttrRequestID       = "regdesk.request_id"
	AttrAttempt         = "regdesk.attempt"
	AttrXSRFRetriesLeft = "regdesk.xsrf.retries_left"
)

// EventXSRFRetry marks a request resent after a stale XSRF token.
const EventXSRFRetry = "xsrf.retry"
