package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/prudentjag/inventory-pos/domain"
)

// Invoice is the cashier-facing projection of an accepted sale: line items,
// total, payment method and, while a gateway payment is pending, the
// transfer target. It holds no state beyond what it was built from.
type Invoice struct {
	SaleID        int64
	InvoiceNumber string
	Cashier       string
	Method        domain.PaymentMethod
	Status        domain.PaymentStatus
	Items         []domain.CartLine
	Total         float64
	CheckoutURL   string
	Account       *domain.VirtualAccount
	IssuedAt      time.Time
}

// FromSale projects an accepted sale and the cart snapshot it was built
// from. Synchronous methods are paid on acceptance; gateway sales start
// pending until the poller reports otherwise.
func FromSale(result *domain.SaleResult, snapshot *domain.CartSnapshot, method domain.PaymentMethod, cashier string) *Invoice {
	// the backend's own status wins when present, even a pending one with
	// no transfer target; such an invoice is never polled and leaves the
	// screen only by dismissal
	status := result.Sale.PaymentStatus
	if status == "" {
		if method.Asynchronous() && result.AwaitsConfirmation() {
			status = domain.PaymentStatusPending
		} else {
			status = domain.PaymentStatusPaid
		}
	}
	return &Invoice{
		SaleID:        result.Sale.ID,
		InvoiceNumber: result.Sale.InvoiceNumber,
		Cashier:       cashier,
		Method:        method,
		Status:        status,
		Items:         snapshot.Items,
		Total:         snapshot.Total,
		CheckoutURL:   result.Sale.CheckoutURL,
		Account:       result.Account,
		IssuedAt:      time.Now(),
	}
}

func (inv *Invoice) Pending() bool {
	return inv.Status == domain.PaymentStatusPending
}

// WithStatus returns a copy reflecting a newer payment status.
func (inv *Invoice) WithStatus(status domain.PaymentStatus) *Invoice {
	next := *inv
	next.Status = status
	return &next
}

// Reference mirrors the sale's polling identifier.
func (inv *Invoice) Reference() string {
	sale := domain.Sale{ID: inv.SaleID, InvoiceNumber: inv.InvoiceNumber}
	return sale.Reference()
}

const receiptWidth = 38

// Render serializes the projection to the print-formatted receipt view.
func (inv *Invoice) Render() string {
	var b strings.Builder

	center(&b, "INVENTORY SYS")
	center(&b, fmt.Sprintf("Order %d", inv.SaleID))
	if inv.InvoiceNumber != "" {
		center(&b, inv.InvoiceNumber)
	}
	center(&b, inv.IssuedAt.Format("02 Jan 2006 15:04"))
	if inv.Cashier != "" {
		center(&b, "Cashier: "+inv.Cashier)
	}
	rule(&b)

	for _, item := range inv.Items {
		name := item.Name
		if len(name) > 22 {
			name = name[:22]
		}
		fmt.Fprintf(&b, "%-22s x%-3d %s\n", name, item.Quantity, FormatNaira(item.Subtotal()))
	}
	rule(&b)

	fmt.Fprintf(&b, "%-22s      %s\n", "TOTAL", FormatNaira(inv.Total))
	fmt.Fprintf(&b, "Paid via %s\n", inv.Method.Label())

	switch {
	case inv.Status.Confirmed():
		b.WriteString("Payment confirmed\n")
	case inv.Status == domain.PaymentStatusFailed:
		b.WriteString("PAYMENT FAILED\n")
	case inv.Pending():
		b.WriteString("PAYMENT PENDING\n")
		if inv.Account != nil {
			rule(&b)
			b.WriteString("Transfer to complete payment:\n")
			fmt.Fprintf(&b, "Bank:    %s\n", inv.Account.BankName)
			fmt.Fprintf(&b, "Account: %s\n", inv.Account.AccountNumber)
			fmt.Fprintf(&b, "Amount:  %s\n", FormatNaira(inv.Account.Amount))
			if !inv.Account.ExpiresOn.IsZero() {
				fmt.Fprintf(&b, "Expires: %s\n", inv.Account.ExpiresOn.Format("02 Jan 2006 15:04"))
			}
		}
		if inv.CheckoutURL != "" {
			fmt.Fprintf(&b, "Pay online: %s\n", inv.CheckoutURL)
		}
	}

	rule(&b)
	center(&b, "Thank you for your patronage!")
	return b.String()
}

func center(b *strings.Builder, s string) {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(s)
	b.WriteByte('\n')
}

func rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", receiptWidth))
	b.WriteByte('\n')
}
