package session

import (
	"context"
	"log"
	"sync"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/cart"
	"github.com/prudentjag/inventory-pos/internal/checkout"
	"github.com/prudentjag/inventory-pos/internal/invoice"
	"github.com/prudentjag/inventory-pos/internal/poller"
)

// Session owns one terminal's active sale: the cart being built, the
// checkout driving it, and the invoice/poller pair once a sale is
// accepted. At most one invoice is live per session; dismissing it cancels
// any polling and readies the session for the next sale.
type Session struct {
	ID string

	cart     *cart.Cart
	checkout *checkout.Orchestrator

	statusBackend poller.StatusBackend
	listeners     poller.Listeners
	pollCfg       poller.Config
	cashier       string

	mu      sync.Mutex
	invoice *invoice.Invoice
	poller  *poller.Poller
	cancel  context.CancelFunc
}

func (s *Session) AddItem(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(p)
}

func (s *Session) UpdateQuantity(productID int64, delta int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, delta)
}

func (s *Session) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(productID)
}

func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// CartView returns the lines and total as of this call.
func (s *Session) CartView() ([]domain.CartLine, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines(), s.cart.Total()
}

func (s *Session) InitiateCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Initiate()
}

func (s *Session) SelectPaymentMethod(m domain.PaymentMethod) error {
	return s.checkout.SelectPaymentMethod(m)
}

func (s *Session) CheckoutState() checkout.State {
	return s.checkout.State()
}

// Submit runs checkout for the current cart. The terminal submits straight
// from the payment modal, so an idle checkout is initiated on the way
// through. On acceptance the invoice is built from the submission snapshot;
// for a pending gateway payment the confirmation poller is started and
// keeps running until it reaches a terminal status or the invoice is
// dismissed.
func (s *Session) Submit(ctx context.Context, redirectURL string) (*invoice.Invoice, error) {
	if s.checkout.State() == checkout.StateIdle {
		if err := s.checkout.Initiate(); err != nil {
			return nil, err
		}
	}
	out, err := s.checkout.Submit(ctx, redirectURL)
	if err != nil {
		return nil, err
	}

	inv := invoice.FromSale(out.Result, out.Snapshot, out.Method, s.cashier)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoice = inv
	if out.Pending {
		pollCtx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		listeners := append(poller.Listeners{s}, s.listeners...)
		s.poller = poller.New(s.statusBackend, listeners, out.Result.Sale, s.pollCfg)
		go s.poller.Run(pollCtx)
	}
	return inv, nil
}

// Invoice returns the live projection, nil when none is open.
func (s *Session) Invoice() *invoice.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoice
}

// DismissInvoice closes the invoice view. Polling stops immediately; a
// response already in flight is discarded by the poller, never applied.
func (s *Session) DismissInvoice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollingLocked()
	s.invoice = nil
	s.checkout.Reset()
}

func (s *Session) stopPollingLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.poller = nil
}

// PaymentConfirmed implements poller.Listener: the one-time success
// notification plus the invoice flipping to its final status.
func (s *Session) PaymentConfirmed(_ context.Context, sale domain.Sale) {
	log.Printf("payment confirmed for sale %v", sale.Reference())
	s.applyStatus(sale.PaymentStatus)
}

func (s *Session) PaymentFailed(_ context.Context, sale domain.Sale) {
	log.Printf("payment failed for sale %v", sale.Reference())
	s.applyStatus(domain.PaymentStatusFailed)
}

func (s *Session) PaymentUnresolved(_ context.Context, sale domain.Sale) {
	log.Printf("payment still pending for sale %v, gave up polling", sale.Reference())
}

func (s *Session) applyStatus(status domain.PaymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.invoice != nil {
		s.invoice = s.invoice.WithStatus(status)
	}
}
