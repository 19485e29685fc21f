package harness

import "errors"

var errNilStore = errors.New("nil store")
var errNilProber = errors.New("nil prober")
var errInvalidNumRounds = errors.New("invalid number of rounds")
var errInvalidAwaitInterval = errors.New("invalid await interval")
var errInvalidAwaitTimeout = errors.New("invalid await timeout")
var errInvalidBounds = errors.New("invalid gauge bounds")
