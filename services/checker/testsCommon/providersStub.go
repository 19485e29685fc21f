package testsCommon

import (
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// ReportProviderStub -
type ReportProviderStub struct {
	ReportHandler func() common.Report
}

// Report -
func (stub *ReportProviderStub) Report() common.Report {
	if stub.ReportHandler != nil {
		return stub.ReportHandler()
	}

	return common.Report{}
}

// IsInterfaceNil -
func (stub *ReportProviderStub) IsInterfaceNil() bool {
	return stub == nil
}

// StatsProviderStub -
type StatsProviderStub struct {
	StatsHandler func() common.ListenerStats
}

// Stats -
func (stub *StatsProviderStub) Stats() common.ListenerStats {
	if stub.StatsHandler != nil {
		return stub.StatsHandler()
	}

	return common.ListenerStats{}
}

// IsInterfaceNil -
func (stub *StatsProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
