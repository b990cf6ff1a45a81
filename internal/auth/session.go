package auth

// Session identifies the terminal against the sales backend: the bearer
// token, the unit whose inventory is being sold, and the cashier shown on
// receipts. It is built once at startup and passed explicitly to everything
// that needs it.
type Session struct {
	Token   string
	UnitID  int64
	Cashier string
}
