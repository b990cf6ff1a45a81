package checkout

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrSubmissionInFlight   = errors.New("a submission is already in flight")
	ErrIllegalTransition    = errors.New("illegal transition of checkout state")
)
