package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/prudentjag/inventory-pos/internal/backend"
	"github.com/prudentjag/inventory-pos/internal/checkout"
	"github.com/prudentjag/inventory-pos/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleCheckoutError maps flow errors to HTTP. Backend rejections keep
// their status and message verbatim; the request id rides along in details
// so a failed sale can be quoted back to support.
func handleCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusBadGateway, "backend_unavailable"
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		status, code = apiErr.StatusCode, "backend_rejected"
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code = http.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, checkout.ErrNoPaymentMethod),
		errors.Is(err, checkout.ErrUnknownPaymentMethod):
		status, code = http.StatusBadRequest, "invalid_payment_method"
	case errors.Is(err, checkout.ErrSubmissionInFlight),
		errors.Is(err, checkout.ErrIllegalTransition):
		status, code = http.StatusConflict, "checkout_conflict"
	case errors.Is(err, session.ErrSessionNotFound):
		status, code = http.StatusNotFound, "session_not_found"
	}
	respondJSON(w, status, ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Details: getRequestID(r.Context()),
	})
}
