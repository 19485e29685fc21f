package listener

import "github.com/iulianpascalau/dogstatsd-checker/services/checker/common"

// MetricIngester defines the store operation used by the listener
type MetricIngester interface {
	Ingest(record common.MetricRecord) error
	IsInterfaceNil() bool
}
