package harness

import (
	"fmt"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
)

// BoundedGauge defines the inclusive range a gauge must fall in
type BoundedGauge struct {
	Name string
	Min  float64
	Max  float64
}

// Rules groups the metric names by the validation rule applied to them
type Rules struct {
	ExactIncrement []string
	Monotonic      []string
	Bounded        []BoundedGauge
}

func (r Rules) check() error {
	for _, gauge := range r.Bounded {
		if gauge.Min > gauge.Max {
			return fmt.Errorf("%w for %s: min %v > max %v", errInvalidBounds, gauge.Name, gauge.Min, gauge.Max)
		}
	}

	return nil
}

// isExactIncrement compares the integer parts of the two samples
func isExactIncrement(previous common.NumericValue, current common.NumericValue) bool {
	return current.Integer()-previous.Integer() == 1
}

// isMonotonic compares the integer parts of the two samples
func isMonotonic(previous common.NumericValue, current common.NumericValue) bool {
	return current.Integer() >= previous.Integer()
}

func isWithinBounds(gauge BoundedGauge, current common.NumericValue) bool {
	return current.Float >= gauge.Min && current.Float <= gauge.Max
}
