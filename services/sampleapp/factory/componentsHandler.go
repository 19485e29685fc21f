package factory

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/commonGo"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/api"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/config"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/emitter"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/metrics"
)

type componentsHandler struct {
	pusher       Pusher
	server       Server
	mutCancel    sync.Mutex
	cancel       func()
	pushInterval time.Duration
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	names := api.NewWorkerMetricNames(cfg.WorkerID)
	registry, err := createRegistry(names)
	if err != nil {
		return nil, err
	}

	formatter := emitter.NewFormatter(emitter.ArgsFormatter{
		Prefix:    cfg.StatsD.Prefix,
		ExtraTags: cfg.StatsD.ExtraTags,
		AllGauges: cfg.StatsD.AllGauges,
		NoWorkers: cfg.StatsD.NoWorkers,
		Whitelist: cfg.StatsD.Whitelist,
	})

	pusher, err := emitter.NewUDPPusher(emitter.ArgsUDPPusher{
		Address:   cfg.StatsD.Address,
		Registry:  registry,
		Formatter: formatter,
	})
	if err != nil {
		return nil, err
	}

	server, err := api.NewServer(api.ArgsWebServer{
		ListenAddress: cfg.ListenAddress,
		Recorder:      registry,
		Names:         names,
	})
	if err != nil {
		_ = pusher.Close()
		return nil, err
	}

	return &componentsHandler{
		pusher:       pusher,
		server:       server,
		pushInterval: time.Duration(cfg.PushIntervalInMilliseconds) * time.Millisecond,
	}, nil
}

func createRegistry(names api.WorkerMetricNames) (MetricsRegistry, error) {
	registry := metrics.NewRegistry()
	registrations := []struct {
		name           string
		metricType     metrics.Type
		resetAfterPush bool
	}{
		{names.Requests, metrics.Counter, false},
		{names.DeltaRequests, metrics.Counter, true},
		{names.AvgResponseTime, metrics.Gauge, false},
		{names.Tx, metrics.Counter, false},
	}
	for _, registration := range registrations {
		err := registry.Register(registration.name, registration.metricType, 0, registration.resetAfterPush)
		if err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// GetPusher returns the metrics pusher
func (ch *componentsHandler) GetPusher() Pusher {
	return ch.pusher
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the server and the periodic push
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	ch.server.Start()
	commonGo.CronJobStarter(ctx, ch.pusher.Push, ch.pushInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	_ = ch.server.Close()
	_ = ch.pusher.Close()
}
