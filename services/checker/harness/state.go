package harness

// State is the step the harness is currently executing
type State int32

const (
	// Idle is the state before Run is called
	Idle State = iota
	// Probing means the trigger probe is in flight
	Probing
	// AwaitingChange means the harness waits for the store signal
	AwaitingChange
	// Checking means the rules are evaluated against the latest snapshot
	Checking
	// Done means all rounds were executed
	Done
)

// String returns the human readable state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probing:
		return "probing"
	case AwaitingChange:
		return "awaiting change"
	case Checking:
		return "checking"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
