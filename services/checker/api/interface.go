package api

import (
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// MetricsReader defines the read-only store operations exposed by the server
type MetricsReader interface {
	SnapshotChanged() map[string]common.NumericValue
	IsSignaled() bool
	CurrentValue(name string) (common.MetricRecord, bool)
	CurrentAll() map[string]common.MetricRecord
	IsInterfaceNil() bool
}

// ReportProvider defines the component able to return the validation report accumulated so far
type ReportProvider interface {
	Report() common.Report
	IsInterfaceNil() bool
}

// StatsProvider defines the component able to return the listener counters
type StatsProvider interface {
	Stats() common.ListenerStats
	IsInterfaceNil() bool
}
