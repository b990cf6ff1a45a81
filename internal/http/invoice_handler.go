package http

import (
	"net/http"
	"time"

	"github.com/prudentjag/inventory-pos/internal/invoice"
)

type virtualAccountDTO struct {
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	Amount        float64 `json:"amount"`
	ExpiresOn     string  `json:"expires_on,omitempty"`
}

type invoiceResponseDTO struct {
	SaleID         int64              `json:"sale_id"`
	InvoiceNumber  string             `json:"invoice_number,omitempty"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	Items          []cartLineDTO      `json:"items"`
	Total          float64            `json:"total"`
	TotalFormatted string             `json:"total_formatted"`
	CheckoutURL    string             `json:"checkout_url,omitempty"`
	AccountDetails *virtualAccountDTO `json:"account_details,omitempty"`
}

// GET /sessions/{sessionID}/invoice
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	inv := s.Invoice()
	if inv == nil {
		respondError(w, http.StatusNotFound, "no_invoice", "no invoice open for this session")
		return
	}

	respondJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

// GET /sessions/{sessionID}/invoice/print
// Serializes the invoice to the print-formatted receipt view.
func (h *Handler) PrintInvoice(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	inv := s.Invoice()
	if inv == nil {
		respondError(w, http.StatusNotFound, "no_invoice", "no invoice open for this session")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(inv.Render())); err != nil {
		return
	}
}

// DELETE /sessions/{sessionID}/invoice
// Dismissing the invoice cancels any pending-payment polling immediately.
func (h *Handler) DismissInvoice(w http.ResponseWriter, r *http.Request) {
	s := h.sessionFromRequest(w, r)
	if s == nil {
		return
	}

	s.DismissInvoice()
	w.WriteHeader(http.StatusNoContent)
}

func toInvoiceDTO(inv *invoice.Invoice) invoiceResponseDTO {
	dto := invoiceResponseDTO{
		SaleID:         inv.SaleID,
		InvoiceNumber:  inv.InvoiceNumber,
		PaymentMethod:  inv.Method.String(),
		PaymentStatus:  inv.Status.String(),
		Items:          make([]cartLineDTO, 0, len(inv.Items)),
		Total:          inv.Total,
		TotalFormatted: invoice.FormatNaira(inv.Total),
		CheckoutURL:    inv.CheckoutURL,
	}
	for _, line := range inv.Items {
		dto.Items = append(dto.Items, cartLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}
	if inv.Account != nil {
		account := &virtualAccountDTO{
			BankName:      inv.Account.BankName,
			AccountNumber: inv.Account.AccountNumber,
			Amount:        inv.Account.Amount,
		}
		if !inv.Account.ExpiresOn.IsZero() {
			account.ExpiresOn = inv.Account.ExpiresOn.Format(time.RFC3339)
		}
		dto.AccountDetails = account
	}
	return dto
}
