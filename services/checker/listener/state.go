package listener

// State is the lifecycle state of the listener
type State int32

const (
	// Created is the state right after construction
	Created State = iota
	// Bound means the socket is open and bound
	Bound
	// Listening means the receive loop is running
	Listening
	// Stopped means the receive loop ended and the socket was closed
	Stopped
)

// String returns the human readable state
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Bound:
		return "bound"
	case Listening:
		return "listening"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
