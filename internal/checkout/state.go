package checkout

type State string

const (
	StateIdle            State = "IDLE"
	StateCreatingOrder   State = "CREATING_ORDER"
	StateAwaitingCapture State = "AWAITING_CAPTURE"
	StateVerifying       State = "VERIFYING"
	StateSettled         State = "SETTLED"
)

// Any step may fail straight to Settled; only Settled goes back to Idle.
var transitions = map[State][]State{
	StateIdle:            {StateCreatingOrder, StateSettled},
	StateCreatingOrder:   {StateAwaitingCapture, StateSettled},
	StateAwaitingCapture: {StateVerifying, StateSettled},
	StateVerifying:       {StateSettled},
	StateSettled:         {StateIdle},
}

func CanTransitionTo(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}
