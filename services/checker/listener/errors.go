package listener

import "errors"

// ErrSocketBind signals that the UDP socket could not be bound
var ErrSocketBind = errors.New("can not bind UDP socket")

var errNilStore = errors.New("nil store")
var errInvalidBufferSize = errors.New("invalid buffer size")
var errInvalidPollTimeout = errors.New("invalid poll timeout")
var errNotBound = errors.New("listener is not bound")
