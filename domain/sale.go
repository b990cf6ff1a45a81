package domain

import (
	"strconv"
	"time"
)

// SaleItem is one line of a sale submission.
type SaleItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// SaleRequest is built once from the cart when the cashier submits and is
// immutable after that.
type SaleRequest struct {
	UnitID        int64         `json:"unit_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	RedirectURL   string        `json:"redirect_url,omitempty"`
	Items         []SaleItem    `json:"items"`
}

// Sale is the backend-recorded transaction for an accepted submission.
type Sale struct {
	ID            int64
	InvoiceNumber string
	TotalAmount   float64
	PaymentStatus PaymentStatus
	CheckoutURL   string
}

// Reference is the identifier used when querying payment status: the
// invoice number when the backend issued one, the sale id otherwise.
func (s Sale) Reference() string {
	if s.InvoiceNumber != "" {
		return s.InvoiceNumber
	}
	return strconv.FormatInt(s.ID, 10)
}

// VirtualAccount is a temporary bank-transfer target issued by the payment
// gateway for one specific sale.
type VirtualAccount struct {
	BankName      string
	AccountNumber string
	Amount        float64
	ExpiresOn     time.Time // zero when the gateway gave no expiry
}

// SaleResult is everything the backend returns for an accepted sale.
type SaleResult struct {
	Sale    Sale
	Account *VirtualAccount // present for gateway methods
}

// AwaitsConfirmation reports whether the backend handed back an async
// payment target (virtual account or hosted checkout) still to be settled.
func (r *SaleResult) AwaitsConfirmation() bool {
	return r.Account != nil || r.Sale.CheckoutURL != ""
}
