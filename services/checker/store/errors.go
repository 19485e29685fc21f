package store

import "errors"

// ErrNonNumericValue signals that a record value can not be tracked as a numeric change
var ErrNonNumericValue = errors.New("non numeric metric value")

var errEmptyPrimaryCounter = errors.New("empty primary counter name")
