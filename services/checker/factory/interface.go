package factory

import (
	"context"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// Listener defines the operations of the ingest listener driven by the coordinator
type Listener interface {
	Bind() error
	Listen(ctx context.Context) error
	Close() error
	Address() string
	Stats() common.ListenerStats
	IsInterfaceNil() bool
}

// Harness defines the operations of the validation harness driven by the coordinator
type Harness interface {
	Run(ctx context.Context) common.Report
	Report() common.Report
	IsInterfaceNil() bool
}

// Store defines the metric store operations used by the coordinator
type Store interface {
	SnapshotChanged() map[string]common.NumericValue
	IsSignaled() bool
	CurrentAll() map[string]common.MetricRecord
	IsInterfaceNil() bool
}

// ReportPublisher defines the component able to publish the final validation report
type ReportPublisher interface {
	Publish(ctx context.Context, report common.Report) error
	IsInterfaceNil() bool
}

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}
