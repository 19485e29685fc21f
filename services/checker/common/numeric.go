package common

import (
	"math"
	"strconv"
)

// NumericValue is a parsed metric value. Integer literals keep their exact int64 value.
type NumericValue struct {
	Int   int64
	Float float64
	IsInt bool
}

// NewIntValue creates an exact integer value
func NewIntValue(value int64) NumericValue {
	return NumericValue{
		Int:   value,
		Float: float64(value),
		IsInt: true,
	}
}

// NewFloatValue creates a value from a fractional or exponent literal
func NewFloatValue(value float64) NumericValue {
	return NumericValue{
		Float: value,
	}
}

// Integer returns the exact integer or, for fractional values, the truncated float clamped to the int64 range
func (v NumericValue) Integer() int64 {
	if v.IsInt {
		return v.Int
	}

	truncated := math.Trunc(v.Float)
	switch {
	case truncated >= math.MaxInt64:
		return math.MaxInt64
	case truncated <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(truncated)
	}
}

// String returns the shortest literal representing the value
func (v NumericValue) String() string {
	if v.IsInt {
		return strconv.FormatInt(v.Int, 10)
	}

	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON renders the value as a plain JSON number without losing integer precision
func (v NumericValue) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}
