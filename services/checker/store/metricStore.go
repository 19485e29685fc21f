package store

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("store")

// metricStore keeps the latest record per metric name and the numeric values of the metrics that changed.
// All three fields are mutated together under the same mutex.
type metricStore struct {
	mut            sync.Mutex
	primaryCounter string
	current        map[string]common.MetricRecord
	changed        map[string]common.NumericValue
	signal         bool
}

// NewMetricStore creates a new store that raises its signal whenever the primary counter changes
func NewMetricStore(primaryCounter string) (*metricStore, error) {
	if len(primaryCounter) == 0 {
		return nil, errEmptyPrimaryCounter
	}

	return &metricStore{
		primaryCounter: primaryCounter,
		current:        make(map[string]common.MetricRecord),
		changed:        make(map[string]common.NumericValue),
	}, nil
}

// Ingest stores the record as the latest observation. If its value differs from the previous one (or the metric
// was never seen) the numeric value is recorded as a change. Non-numeric values still replace the latest
// observation but produce no change entry and return ErrNonNumericValue. NaN and infinities are non numeric.
func (ms *metricStore) Ingest(record common.MetricRecord) error {
	record.Tags = copyTags(record.Tags)

	ms.mut.Lock()
	defer ms.mut.Unlock()

	previous, found := ms.current[record.Name]
	ms.current[record.Name] = record
	if found && previous.Value == record.Value {
		return nil
	}

	numeric, err := parseNumeric(record.Value)
	if err != nil {
		return fmt.Errorf("%w %q for metric %s", err, record.Value, record.Name)
	}

	ms.changed[record.Name] = numeric
	if record.Name == ms.primaryCounter {
		ms.signal = true
	}

	log.Trace("metric changed", "name", record.Name, "value", record.Value)

	return nil
}

// parseNumeric keeps integer literals exact and rejects non finite floats
func parseNumeric(value string) (common.NumericValue, error) {
	integer, err := strconv.ParseInt(value, 10, 64)
	if err == nil {
		return common.NewIntValue(integer), nil
	}

	float, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(float) || math.IsInf(float, 0) {
		return common.NumericValue{}, ErrNonNumericValue
	}

	return common.NewFloatValue(float), nil
}

// SnapshotChanged returns a copy of the accumulated changes
func (ms *metricStore) SnapshotChanged() map[string]common.NumericValue {
	ms.mut.Lock()
	defer ms.mut.Unlock()

	return ms.copyChanged()
}

// SnapshotAndResetSignal returns a copy of the accumulated changes and lowers the signal in the same critical
// section, so a primary counter change is either in the snapshot or keeps the signal raised
func (ms *metricStore) SnapshotAndResetSignal() map[string]common.NumericValue {
	ms.mut.Lock()
	defer ms.mut.Unlock()

	ms.signal = false

	return ms.copyChanged()
}

func (ms *metricStore) copyChanged() map[string]common.NumericValue {
	snapshot := make(map[string]common.NumericValue, len(ms.changed))
	for name, value := range ms.changed {
		snapshot[name] = value
	}

	return snapshot
}

// IsSignaled returns true if the primary counter changed since the last ResetSignal call
func (ms *metricStore) IsSignaled() bool {
	ms.mut.Lock()
	defer ms.mut.Unlock()

	return ms.signal
}

// ResetSignal lowers the signal. The accumulated changes are kept.
func (ms *metricStore) ResetSignal() {
	ms.mut.Lock()
	ms.signal = false
	ms.mut.Unlock()
}

// CurrentValue returns the latest record of the provided metric
func (ms *metricStore) CurrentValue(name string) (common.MetricRecord, bool) {
	ms.mut.Lock()
	defer ms.mut.Unlock()

	record, found := ms.current[name]
	if !found {
		return common.MetricRecord{}, false
	}

	record.Tags = copyTags(record.Tags)

	return record, true
}

// CurrentAll returns a copy of all latest records
func (ms *metricStore) CurrentAll() map[string]common.MetricRecord {
	ms.mut.Lock()
	defer ms.mut.Unlock()

	all := make(map[string]common.MetricRecord, len(ms.current))
	for name, record := range ms.current {
		record.Tags = copyTags(record.Tags)
		all[name] = record
	}

	return all
}

// IsInterfaceNil returns true if the value under the interface is nil
func (ms *metricStore) IsInterfaceNil() bool {
	return ms == nil
}

func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	result := make([]string, len(tags))
	copy(result, tags)

	return result
}
