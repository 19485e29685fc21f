package factory

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/commonGo"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/api"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/config"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/harness"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/listener"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/prober"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/reporter"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/store"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Process exit codes
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	registry          *prometheus.Registry
	store             Store
	listener          Listener
	harness           Harness
	server            Server
	publisher         ReportPublisher
	publishTimeout    time.Duration
	maxRunDuration    time.Duration
	statusLogInterval time.Duration

	mutRun  sync.Mutex
	running bool
}

// NewComponentsHandler creates all the checker components and wires them together
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	registry := prometheus.NewRegistry()

	metricStore, err := store.NewMetricStore(cfg.Harness.PrimaryCounter)
	if err != nil {
		return nil, err
	}

	udpListener, err := listener.NewUDPListener(listener.ArgsUDPListener{
		Host:        cfg.Listener.Host,
		Port:        cfg.Listener.Port,
		BufferSize:  cfg.Listener.BufferSize,
		PollTimeout: time.Duration(cfg.Listener.PollTimeoutInMilliseconds) * time.Millisecond,
		Store:       metricStore,
		Registerer:  registry,
	})
	if err != nil {
		return nil, err
	}

	httpProber, err := prober.NewHTTPProber(prober.ArgsHTTPProber{
		URL:            cfg.Probe.URL,
		ExpectedMarker: cfg.Probe.ExpectedMarker,
		JSONPath:       cfg.Probe.JSONPath,
		Timeout:        time.Duration(cfg.Probe.TimeoutInMilliseconds) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	validationHarness, err := harness.NewHarness(harness.ArgsHarness{
		Store:         metricStore,
		Prober:        httpProber,
		Rules:         createRules(cfg.Harness),
		NumRounds:     cfg.Harness.NumRounds,
		AwaitInterval: time.Duration(cfg.Harness.AwaitIntervalInMilliseconds) * time.Millisecond,
		AwaitTimeout:  time.Duration(cfg.Harness.AwaitTimeoutInMilliseconds) * time.Millisecond,
		Registerer:    registry,
	})
	if err != nil {
		return nil, err
	}

	ch := &componentsHandler{
		registry:          registry,
		store:             metricStore,
		listener:          udpListener,
		harness:           validationHarness,
		maxRunDuration:    time.Duration(cfg.MaxRunDurationInSeconds) * time.Second,
		statusLogInterval: time.Duration(cfg.StatusLogIntervalInSeconds) * time.Second,
		publishTimeout:    time.Duration(cfg.Report.TimeoutInMilliseconds) * time.Millisecond,
	}

	if len(cfg.Report.Endpoint) > 0 {
		ch.publisher, err = reporter.NewHTTPReporter(cfg.Report.Endpoint, cfg.Report.APIKey, cfg.Report.CheckerID, ch.publishTimeout)
		if err != nil {
			return nil, err
		}
	}

	if len(cfg.API.ListenAddress) == 0 {
		return ch, nil
	}

	ch.server, err = api.NewServer(api.ArgsWebServer{
		ListenAddress:  cfg.API.ListenAddress,
		Store:          metricStore,
		Reports:        validationHarness,
		Stats:          udpListener,
		Gatherer:       registry,
		GeneralHandler: api.CORSMiddleware,
	})
	if err != nil {
		return nil, err
	}

	return ch, nil
}

func createRules(cfg config.HarnessConfig) harness.Rules {
	rules := harness.Rules{
		ExactIncrement: cfg.ExactIncrementCounters,
		Monotonic:      cfg.MonotonicCounters,
		Bounded:        make([]harness.BoundedGauge, 0, len(cfg.BoundedGauges)),
	}
	for _, gauge := range cfg.BoundedGauges {
		rules.Bounded = append(rules.Bounded, harness.BoundedGauge{
			Name: gauge.Name,
			Min:  gauge.Min,
			Max:  gauge.Max,
		})
	}

	return rules
}

// Run binds the listener, then runs the listener and the harness concurrently. The listener is stopped once the
// harness is done, the context is done or the maximum run duration elapses. The returned exit code is a
// success only if every round passed. A bind failure or a fatal socket error is returned as error.
func (ch *componentsHandler) Run(ctx context.Context) (int, error) {
	ch.mutRun.Lock()
	if ch.running {
		ch.mutRun.Unlock()
		return ExitCodeFailure, errAlreadyRunning
	}
	ch.running = true
	ch.mutRun.Unlock()

	err := ch.listener.Bind()
	if err != nil {
		log.Error("failed to start the ingest listener", "error", err)
		return ExitCodeFailure, err
	}

	if ch.server != nil {
		ch.server.Start()
	}

	if ch.maxRunDuration > 0 {
		var cancelDeadline context.CancelFunc
		ctx, cancelDeadline = context.WithTimeout(ctx, ch.maxRunDuration)
		defer cancelDeadline()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	listenCtx, stopListening := context.WithCancel(groupCtx)
	defer stopListening()

	commonGo.CronJobStarter(listenCtx, ch.logStatus, ch.statusLogInterval)

	group.Go(func() error {
		return ch.listener.Listen(listenCtx)
	})
	group.Go(func() error {
		defer stopListening()

		_ = ch.harness.Run(groupCtx)
		return nil
	})

	err = group.Wait()
	report := ch.harness.Report()
	log.Info("validation report\n" + harness.FormatReport(report))
	ch.publishReport(report)

	if err != nil {
		return ExitCodeFailure, err
	}
	if !report.Passed() {
		return ExitCodeFailure, nil
	}

	return ExitCodeSuccess, nil
}

// publishReport uses its own deadline, so an interrupted run still publishes its report
func (ch *componentsHandler) publishReport(report common.Report) {
	if ch.publisher == nil {
		return
	}

	ctx := context.Background()
	if ch.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ch.publishTimeout)
		defer cancel()
	}

	err := ch.publisher.Publish(ctx, report)
	if err != nil {
		log.Warn("failed to publish the validation report", "error", err)
	}
}

func (ch *componentsHandler) logStatus(_ context.Context) {
	stats := ch.listener.Stats()
	log.Info("checker status",
		"signaled", ch.store.IsSignaled(),
		"num metrics", len(ch.store.CurrentAll()),
		"num changed", len(ch.store.SnapshotChanged()),
		"datagrams", stats.DatagramsReceived,
		"parse failures", stats.ParseFailures,
	)
}

// Report returns the validation report accumulated so far
func (ch *componentsHandler) Report() common.Report {
	return ch.harness.Report()
}

// GetStore returns the metric store component
func (ch *componentsHandler) GetStore() Store {
	return ch.store
}

// GetListener returns the ingest listener component
func (ch *componentsHandler) GetListener() Listener {
	return ch.listener
}

// GetHarness returns the validation harness component
func (ch *componentsHandler) GetHarness() Harness {
	return ch.harness
}

// GetServer returns the diagnostics server or nil if it is disabled
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	_ = ch.listener.Close()
	if ch.server != nil {
		_ = ch.server.Close()
	}
}
