package factory

import "errors"

var errAlreadyRunning = errors.New("components handler is already running")
