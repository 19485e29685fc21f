package metrics

// Type is the kind of a registered metric
type Type int

const (
	// Counter accumulates values
	Counter Type = iota
	// Gauge holds the last set value
	Gauge
)

// String returns the human readable type
func (t Type) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	default:
		return "unknown"
	}
}

// Metric is a point-in-time copy of a registered metric
type Metric struct {
	Name           string
	Type           Type
	Value          int64
	InitialValue   int64
	ResetAfterPush bool
}
