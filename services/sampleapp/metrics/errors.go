package metrics

import "errors"

var (
	errEmptyName       = errors.New("empty metric name")
	errDuplicateMetric = errors.New("metric already registered")
	errUnknownMetric   = errors.New("unknown metric")
	errUnknownType     = errors.New("unknown metric type")
)
