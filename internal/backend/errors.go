package backend

// APIError carries the backend's message verbatim so the cashier sees
// exactly what the backend said (insufficient stock, validation failure).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
