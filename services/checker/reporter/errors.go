package reporter

import "errors"

var (
	errEmptyEndpoint  = errors.New("empty report endpoint")
	errReportRejected = errors.New("server rejected report with status code")
)
