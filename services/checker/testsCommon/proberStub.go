package testsCommon

import "context"

// ProberStub -
type ProberStub struct {
	ProbeHandler func(ctx context.Context) error
}

// Probe -
func (stub *ProberStub) Probe(ctx context.Context) error {
	if stub.ProbeHandler != nil {
		return stub.ProbeHandler(ctx)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ProberStub) IsInterfaceNil() bool {
	return stub == nil
}
