package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/catalog"
	"github.com/prudentjag/inventory-pos/internal/session"
)

type sessionResponseDTO struct {
	SessionID string `json:"session_id"`
}

type addItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type updateQuantityRequestDTO struct {
	Delta int32 `json:"delta"`
}

type cartLineDTO struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int32   `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type cartResponseDTO struct {
	Items []cartLineDTO `json:"items"`
	Total float64       `json:"total"`
}

// POST /sessions
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Open()
	respondJSON(w, http.StatusCreated, sessionResponseDTO{SessionID: s.ID})
}

// DELETE /sessions/{sessionID}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "sessionID")); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", "no such session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /sessions/{sessionID}/cart/items
// Resolves the product from the unit inventory and adds one of it.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.catalog.FindProduct(ctx, h.unitID, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not in unit inventory")
			return
		}
		handleCheckoutError(w, r, err)
		return
	}

	s.AddItem(product)
	respondCart(w, http.StatusCreated, s)
}

// PATCH /sessions/{sessionID}/cart/items/{productID}
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}
	productID, ok := productIDFromRequest(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	s.UpdateQuantity(productID, req.Delta)
	respondCart(w, http.StatusOK, s)
}

// DELETE /sessions/{sessionID}/cart/items/{productID}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}
	productID, ok := productIDFromRequest(w, r)
	if !ok {
		return
	}

	s.RemoveItem(productID)
	respondCart(w, http.StatusOK, s)
}

// GET /sessions/{sessionID}/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}
	respondCart(w, http.StatusOK, s)
}

// DELETE /sessions/{sessionID}/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}
	s.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

func respondCart(w http.ResponseWriter, status int, s *session.Session) {
	lines, total := s.CartView()
	respondJSON(w, status, toCartDTO(lines, total))
}

func toCartDTO(lines []domain.CartLine, total float64) cartResponseDTO {
	dto := cartResponseDTO{
		Items: make([]cartLineDTO, 0, len(lines)),
		Total: total,
	}
	for _, line := range lines {
		dto.Items = append(dto.Items, cartLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}
	return dto
}
