package emitter

import "github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/metrics"

// MetricsRegistry defines the registry operations needed when pushing
type MetricsRegistry interface {
	SnapshotAndReset() []metrics.Metric
	Len() int
	IsInterfaceNil() bool
}

// Formatter defines the component able to render a metric as a DogStatsD line
type Formatter interface {
	Format(m metrics.Metric) (string, error)
	IsInterfaceNil() bool
}
