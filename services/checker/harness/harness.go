package harness

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	changeTimeoutMessage = "cannot aggregate metrics change"
	interruptedMessage   = "validation interrupted"
)

var log = logger.GetOrCreate("harness")

// ArgsHarness defines the arguments needed to create a new validation harness
type ArgsHarness struct {
	Store         ChangesProvider
	Prober        Prober
	Rules         Rules
	NumRounds     int
	AwaitInterval time.Duration
	AwaitTimeout  time.Duration
	Registerer    prometheus.Registerer
}

type harness struct {
	store         ChangesProvider
	prober        Prober
	rules         Rules
	numRounds     int
	awaitInterval time.Duration
	awaitTimeout  time.Duration
	metrics       *harnessMetrics

	state    atomic.Int32
	mutData  sync.RWMutex
	report   common.Report
	baseline map[string]common.NumericValue
}

// NewHarness creates a new validation harness in the Idle state
func NewHarness(args ArgsHarness) (*harness, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	metrics, err := newHarnessMetrics(args.Registerer)
	if err != nil {
		return nil, fmt.Errorf("%w while registering the harness metrics", err)
	}

	return &harness{
		store:         args.Store,
		prober:        args.Prober,
		rules:         args.Rules,
		numRounds:     args.NumRounds,
		awaitInterval: args.AwaitInterval,
		awaitTimeout:  args.AwaitTimeout,
		metrics:       metrics,
		report: common.Report{
			FailedMetrics: make([]string, 0),
			RoundErrors:   make([]string, 0),
		},
	}, nil
}

func checkArgs(args ArgsHarness) error {
	if check.IfNil(args.Store) {
		return errNilStore
	}
	if check.IfNil(args.Prober) {
		return errNilProber
	}
	if args.NumRounds <= 0 {
		return fmt.Errorf("%w: %d", errInvalidNumRounds, args.NumRounds)
	}
	if args.AwaitInterval <= 0 {
		return fmt.Errorf("%w: %v", errInvalidAwaitInterval, args.AwaitInterval)
	}
	if args.AwaitTimeout < args.AwaitInterval {
		return fmt.Errorf("%w: %v", errInvalidAwaitTimeout, args.AwaitTimeout)
	}

	return args.Rules.check()
}

// Run executes the configured number of rounds and returns the final report. If the context is done before all
// rounds were executed, the report carries an extra failure.
func (h *harness) Run(ctx context.Context) common.Report {
	defer h.state.Store(int32(Done))

	for round := 1; round <= h.numRounds; round++ {
		interrupted := ctx.Err() != nil || h.runRound(ctx, round)
		if interrupted {
			h.recordRoundFailure(round, interruptedMessage)
			break
		}

		h.incrementRounds()
	}

	report := h.Report()
	log.Info("validation finished", "rounds", report.NumRounds, "successes", report.Successes,
		"failures", report.Failures)

	return report
}

// runRound returns true if the round was interrupted by the context
func (h *harness) runRound(ctx context.Context, round int) bool {
	log.Debug("starting validation round", "round", round)

	h.state.Store(int32(Probing))
	err := h.prober.Probe(ctx)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		h.recordRoundFailure(round, fmt.Sprintf("probe failed: %s", err.Error()))
		return false
	}

	h.state.Store(int32(AwaitingChange))
	signaled, err := h.awaitChange(ctx)
	if err != nil {
		return true
	}
	if !signaled {
		h.recordRoundFailure(round, changeTimeoutMessage)
		return false
	}

	h.state.Store(int32(Checking))
	h.checkSnapshot(round, h.store.SnapshotAndResetSignal())

	return false
}

// awaitChange polls the store signal until it is raised or the await timeout elapses
func (h *harness) awaitChange(ctx context.Context) (bool, error) {
	timeout := time.NewTimer(h.awaitTimeout)
	defer timeout.Stop()

	ticker := time.NewTicker(h.awaitInterval)
	defer ticker.Stop()

	for {
		if h.store.IsSignaled() {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timeout.C:
			return h.store.IsSignaled(), nil
		case <-ticker.C:
		}
	}
}

func (h *harness) checkSnapshot(round int, snapshot map[string]common.NumericValue) {
	h.mutData.Lock()
	defer h.mutData.Unlock()

	if h.baseline == nil {
		log.Debug("stored the baseline snapshot", "round", round, "num metrics", len(snapshot))
		h.baseline = snapshot
		return
	}

	for _, name := range h.rules.ExactIncrement {
		h.evaluate(name, snapshot, "exact increment", isExactIncrement)
	}
	for _, name := range h.rules.Monotonic {
		h.evaluate(name, snapshot, "monotonic", isMonotonic)
	}
	for _, gauge := range h.rules.Bounded {
		bounded := gauge
		h.evaluate(gauge.Name, snapshot, "bounded", func(_ common.NumericValue, current common.NumericValue) bool {
			return isWithinBounds(bounded, current)
		})
	}

	h.baseline = snapshot
}

// evaluate must be called under the data mutex. Metrics missing from either sample are skipped.
func (h *harness) evaluate(
	name string,
	snapshot map[string]common.NumericValue,
	ruleName string,
	rule func(previous common.NumericValue, current common.NumericValue) bool,
) {
	previous, foundPrevious := h.baseline[name]
	current, foundCurrent := snapshot[name]
	if !foundPrevious || !foundCurrent {
		log.Debug("not enough samples, skipping metric", "name", name, "rule", ruleName)
		return
	}

	if rule(previous, current) {
		h.report.Successes++
		if h.metrics != nil {
			h.metrics.successes.Inc()
		}
		log.Debug("metric check passed", "name", name, "rule", ruleName, "previous", previous.String(), "current", current.String())
		return
	}

	h.report.Failures++
	h.report.FailedMetrics = append(h.report.FailedMetrics, name)
	if h.metrics != nil {
		h.metrics.failures.Inc()
	}
	log.Error("metric check failed", "name", name, "rule", ruleName, "previous", previous.String(), "current", current.String())
}

func (h *harness) recordRoundFailure(round int, message string) {
	h.mutData.Lock()
	h.report.Failures++
	h.report.RoundErrors = append(h.report.RoundErrors, fmt.Sprintf("round %d: %s", round, message))
	h.mutData.Unlock()

	if h.metrics != nil {
		h.metrics.failures.Inc()
	}
	log.Error("validation round failed", "round", round, "reason", message)
}

func (h *harness) incrementRounds() {
	h.mutData.Lock()
	h.report.NumRounds++
	h.mutData.Unlock()

	if h.metrics != nil {
		h.metrics.rounds.Inc()
	}
}

// Report returns a copy of the report accumulated so far
func (h *harness) Report() common.Report {
	h.mutData.RLock()
	defer h.mutData.RUnlock()

	report := h.report
	report.FailedMetrics = append(make([]string, 0, len(h.report.FailedMetrics)), h.report.FailedMetrics...)
	report.RoundErrors = append(make([]string, 0, len(h.report.RoundErrors)), h.report.RoundErrors...)

	return report
}

// State returns the current state of the harness
func (h *harness) State() State {
	return State(h.state.Load())
}

// IsInterfaceNil returns true if the value under the interface is nil
func (h *harness) IsInterfaceNil() bool {
	return h == nil
}
