package domain

// PaymentStatus is the backend's view of a sale's payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Confirmed reports whether the payment has landed.
func (s PaymentStatus) Confirmed() bool {
	return s == PaymentStatusPaid || s == PaymentStatusCompleted
}

func (s PaymentStatus) IsTerminal() bool {
	return s.Confirmed() || s == PaymentStatusFailed
}

// String representation (for logging)
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod is how the customer settles the sale.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodPOS      PaymentMethod = "pos"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodMonnify  PaymentMethod = "monnify"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPOS, PaymentMethodTransfer, PaymentMethodMonnify:
		return true
	}
	return false
}

// Asynchronous reports whether confirmation arrives after the sale is
// accepted, via the payment gateway, instead of at the counter.
func (m PaymentMethod) Asynchronous() bool {
	return m == PaymentMethodMonnify
}

func (m PaymentMethod) String() string {
	return string(m)
}

// Label is the human-readable name shown on receipts.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodPOS:
		return "POS"
	case PaymentMethodTransfer:
		return "Bank Transfer"
	case PaymentMethodMonnify:
		return "Monnify"
	}
	return string(m)
}
