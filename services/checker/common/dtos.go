package common

// MetricRecord holds the latest observation of one metric as it was received on the wire
type MetricRecord struct {
	Name       string   `json:"name"`
	Value      string   `json:"value"`
	MetricType string   `json:"metricType"`
	Tags       []string `json:"tags"` // nil when the packet carries no tag segment
}

// Report is the outcome of the validation rounds
type Report struct {
	NumRounds     int      `json:"numRounds"`
	Successes     int      `json:"successes"`
	Failures      int      `json:"failures"`
	FailedMetrics []string `json:"failedMetrics"`
	RoundErrors   []string `json:"roundErrors"`
}

// Passed returns true if no failure was recorded
func (r Report) Passed() bool {
	return r.Failures == 0
}

// ListenerStats holds the counters of the ingest listener
type ListenerStats struct {
	DatagramsReceived uint64 `json:"datagramsReceived"`
	BytesReceived     uint64 `json:"bytesReceived"`
	LinesParsed       uint64 `json:"linesParsed"`
	ParseFailures     uint64 `json:"parseFailures"`
	ReceiveErrors     uint64 `json:"receiveErrors"`
}
