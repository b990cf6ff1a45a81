package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/checkout"
)

type selectPaymentMethodRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

type submitRequestDTO struct {
	PaymentMethod string `json:"payment_method,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

type checkoutStateResponseDTO struct {
	State string `json:"state"`
}

// POST /sessions/{sessionID}/checkout
// Initiating with an empty cart is a silent guard, not an error the
// terminal UI reports: 204, no state change.
func (h *Handler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	if err := s.InitiateCheckout(); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handleCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutStateResponseDTO{State: s.CheckoutState().String()})
}

// POST /sessions/{sessionID}/checkout/payment-method
func (h *Handler) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	var req selectPaymentMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.SelectPaymentMethod(domain.PaymentMethod(req.PaymentMethod)); err != nil {
		handleCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutStateResponseDTO{State: s.CheckoutState().String()})
}

// POST /sessions/{sessionID}/checkout/submit
// Submits the sale; the response is the invoice projection, pending or
// paid. An accepted sale makes cached inventory stale, so the catalog is
// invalidated here just like on payment confirmation.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	var req submitRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	if req.PaymentMethod != "" {
		if err := s.SelectPaymentMethod(domain.PaymentMethod(req.PaymentMethod)); err != nil {
			handleCheckoutError(w, r, err)
			return
		}
	}

	inv, err := s.Submit(ctx, req.RedirectURL)
	if err != nil {
		handleCheckoutError(w, r, err)
		return
	}

	h.catalog.Invalidate(h.unitID)

	respondJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}
