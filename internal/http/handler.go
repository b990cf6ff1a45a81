package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/session"
)

// Catalog is the slice of the catalog service the facade needs.
type Catalog interface {
	GetInventory(ctx context.Context, unitID int64) ([]domain.InventoryItem, error)
	FindProduct(ctx context.Context, unitID, productID int64) (domain.Product, error)
	Invalidate(unitID int64)
}

// Handler exposes the POS surface to the terminal UI.
type Handler struct {
	sessions *session.Manager
	catalog  Catalog
	unitID   int64
	timeout  time.Duration
}

func NewHandler(sessions *session.Manager, catalog Catalog, unitID int64, timeout time.Duration) *Handler {
	return &Handler{
		sessions: sessions,
		catalog:  catalog,
		unitID:   unitID,
		timeout:  timeout,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.ListProducts)
	r.Post("/sessions", h.OpenSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Delete("/", h.CloseSession)
		r.Get("/cart", h.GetCart)
		r.Delete("/cart", h.ClearCart)
		r.Post("/cart/items", h.AddItem)
		r.Patch("/cart/items/{productID}", h.UpdateQuantity)
		r.Delete("/cart/items/{productID}", h.RemoveItem)
		r.Post("/checkout", h.InitiateCheckout)
		r.Post("/checkout/payment-method", h.SelectPaymentMethod)
		r.Post("/checkout/submit", h.Submit)
		r.Get("/invoice", h.GetInvoice)
		r.Get("/invoice/print", h.PrintInvoice)
		r.Delete("/invoice", h.DismissInvoice)
	})

	return r
}

func (h *Handler) sessionFromRequest(w http.ResponseWriter, r *http.Request) *session.Session {
	s, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", "no such session")
		return nil
	}
	return s
}

func productIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}
