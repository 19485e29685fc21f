package testsCommon

import (
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// StoreStub -
type StoreStub struct {
	IngestHandler                 func(record common.MetricRecord) error
	SnapshotChangedHandler        func() map[string]common.NumericValue
	SnapshotAndResetSignalHandler func() map[string]common.NumericValue
	IsSignaledHandler             func() bool
	ResetSignalHandler            func()
	CurrentValueHandler           func(name string) (common.MetricRecord, bool)
	CurrentAllHandler             func() map[string]common.MetricRecord
}

// Ingest -
func (stub *StoreStub) Ingest(record common.MetricRecord) error {
	if stub.IngestHandler != nil {
		return stub.IngestHandler(record)
	}

	return nil
}

// SnapshotChanged -
func (stub *StoreStub) SnapshotChanged() map[string]common.NumericValue {
	if stub.SnapshotChangedHandler != nil {
		return stub.SnapshotChangedHandler()
	}

	return make(map[string]common.NumericValue)
}

// SnapshotAndResetSignal -
func (stub *StoreStub) SnapshotAndResetSignal() map[string]common.NumericValue {
	if stub.SnapshotAndResetSignalHandler != nil {
		return stub.SnapshotAndResetSignalHandler()
	}

	return make(map[string]common.NumericValue)
}

// IsSignaled -
func (stub *StoreStub) IsSignaled() bool {
	if stub.IsSignaledHandler != nil {
		return stub.IsSignaledHandler()
	}

	return false
}

// ResetSignal -
func (stub *StoreStub) ResetSignal() {
	if stub.ResetSignalHandler != nil {
		stub.ResetSignalHandler()
	}
}

// CurrentValue -
func (stub *StoreStub) CurrentValue(name string) (common.MetricRecord, bool) {
	if stub.CurrentValueHandler != nil {
		return stub.CurrentValueHandler(name)
	}

	return common.MetricRecord{}, false
}

// CurrentAll -
func (stub *StoreStub) CurrentAll() map[string]common.MetricRecord {
	if stub.CurrentAllHandler != nil {
		return stub.CurrentAllHandler()
	}

	return make(map[string]common.MetricRecord)
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
