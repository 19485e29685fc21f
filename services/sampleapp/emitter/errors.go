package emitter

import "errors"

// ErrMetricFiltered signals a metric excluded by the whitelist or by the workers filter
var ErrMetricFiltered = errors.New("metric filtered out")

var (
	errNameTooLong      = errors.New("metric name too long")
	errEmptyMetricName  = errors.New("metric name has no tokens")
	errNumberOutOfRange = errors.New("numeric token out of range")
	errNilRegistry      = errors.New("nil registry")
	errNilFormatter     = errors.New("nil formatter")
	errInvalidAddress   = errors.New("invalid statsd address")
)
