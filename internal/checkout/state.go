package checkout

// State of the checkout within one POS session.
type State string

const (
	StateIdle            State = "IDLE"
	StateAwaitingPayment State = "AWAITING_PAYMENT_CHOICE"
	StateSubmitting      State = "SUBMITTING"
	StateSucceeded       State = "SUCCEEDED"
	StateFailed          State = "FAILED"
)

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

// CanTransitionTo guards every state change; anything not listed is
// illegal. A failed submission leaves the machine retryable: the cashier
// can submit again or go back to choosing a method.
func CanTransitionTo(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateAwaitingPayment
	case StateAwaitingPayment:
		return to == StateSubmitting
	case StateSubmitting:
		return to == StateSucceeded || to == StateFailed
	case StateFailed:
		return to == StateAwaitingPayment || to == StateSubmitting
	}
	return false
}
