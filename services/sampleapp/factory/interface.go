package factory

import (
	"context"

	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/api"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/emitter"
)

// MetricsRegistry is updated by the server and read by the pusher
type MetricsRegistry interface {
	emitter.MetricsRegistry
	api.MetricsRecorder
}

// Pusher defines the component that periodically sends the metrics
type Pusher interface {
	Push(ctx context.Context)
	Address() string
	Close() error
	IsInterfaceNil() bool
}

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}
