package harness

import (
	"context"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// ChangesProvider defines the store operations used by the harness
type ChangesProvider interface {
	SnapshotAndResetSignal() map[string]common.NumericValue
	IsSignaled() bool
	IsInterfaceNil() bool
}

// Prober defines the operation able to trigger one unit of work on the system under test
type Prober interface {
	Probe(ctx context.Context) error
	IsInterfaceNil() bool
}
