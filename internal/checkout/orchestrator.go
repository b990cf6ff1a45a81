package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/auth"
	"github.com/prudentjag/inventory-pos/internal/backend"
	"github.com/prudentjag/inventory-pos/internal/cart"
)

// SalesBackend creates sales on the authoritative backend.
type SalesBackend interface {
	CreateSale(ctx context.Context, req *domain.SaleRequest, idempotencyKey string) (*domain.SaleResult, error)
}

// Outcome of an accepted submission. Pending means the sale was accepted
// but payment confirmation is still outstanding at the gateway.
type Outcome struct {
	Result   *domain.SaleResult
	Snapshot *domain.CartSnapshot
	Method   domain.PaymentMethod
	Pending  bool
}

// Orchestrator drives one cart through checkout. It owns the state machine
// and issues exactly one sale-creation call per submission; the mutex is
// the single-submission guard.
type Orchestrator struct {
	backend SalesBackend
	sess    auth.Session
	cart    *cart.Cart
	tracer  trace.Tracer

	mu         sync.Mutex
	state      State
	method     domain.PaymentMethod
	attemptKey string
	lastErr    error
}

func NewOrchestrator(b SalesBackend, sess auth.Session, c *cart.Cart) *Orchestrator {
	return &Orchestrator{
		backend: b,
		sess:    sess,
		cart:    c,
		tracer:  otel.Tracer("checkout"),
		state:   StateIdle,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError is the most recent submission failure, nil once a submission
// succeeds or the orchestrator is reset.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Initiate moves to payment choice. An empty cart is a guard, not a
// failure the backend ever sees.
func (o *Orchestrator) Initiate() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cart.Empty() {
		return ErrEmptyCart
	}
	if o.state == StateAwaitingPayment {
		return nil
	}
	if !CanTransitionTo(o.state, StateAwaitingPayment) {
		return ErrIllegalTransition
	}
	o.state = StateAwaitingPayment
	return nil
}

// SelectPaymentMethod records the choice. Pure selection, no side effect.
func (o *Orchestrator) SelectPaymentMethod(m domain.PaymentMethod) error {
	if !m.Valid() {
		return ErrUnknownPaymentMethod
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.method = m
	return nil
}

func (o *Orchestrator) PaymentMethod() domain.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.method
}

// Submit builds the sale request from the current cart and issues exactly
// one creation call. A second Submit while one is in flight fails fast
// instead of double-charging. On rejection the cart is untouched and the
// backend's message comes back verbatim; the cart is cleared only when the
// sale is accepted (accepted, not necessarily confirmed).
func (o *Orchestrator) Submit(ctx context.Context, redirectURL string) (*Outcome, error) {
	o.mu.Lock()
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	// emptiness is judged from the snapshot so the cart submitted is
	// exactly the cart checked
	snapshot := o.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		o.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if o.method == "" {
		o.mu.Unlock()
		return nil, ErrNoPaymentMethod
	}
	if !CanTransitionTo(o.state, StateSubmitting) {
		o.mu.Unlock()
		return nil, ErrIllegalTransition
	}
	if o.attemptKey == "" {
		// minted once per attempt and reused on transport-level retries so
		// the backend can de-duplicate a sale it already recorded
		o.attemptKey = uuid.NewString()
	}
	key := o.attemptKey
	method := o.method
	o.state = StateSubmitting
	o.mu.Unlock()

	req := buildSaleRequest(o.sess.UnitID, method, redirectURL, snapshot)

	ctx, span := o.tracer.Start(ctx, "checkout.submit")
	defer span.End()

	result, err := o.backend.CreateSale(ctx, req, key)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = StateFailed
		o.lastErr = err
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			// a rejection ends this attempt; the next submission is a new
			// sale and needs a fresh key
			o.attemptKey = ""
		}
		return nil, err
	}

	o.state = StateSucceeded
	o.lastErr = nil
	o.attemptKey = ""
	o.cart.Clear()

	pending := method.Asynchronous() &&
		result.AwaitsConfirmation() &&
		!result.Sale.PaymentStatus.Confirmed()

	return &Outcome{
		Result:   result,
		Snapshot: snapshot,
		Method:   method,
		Pending:  pending,
	}, nil
}

// Reset returns the orchestrator to Idle for the next sale, once the
// previous one reached a terminal state or was abandoned.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		return
	}
	o.state = StateIdle
	o.method = ""
	o.attemptKey = ""
	o.lastErr = nil
}

func buildSaleRequest(unitID int64, method domain.PaymentMethod, redirectURL string, snapshot *domain.CartSnapshot) *domain.SaleRequest {
	req := &domain.SaleRequest{
		UnitID:        unitID,
		PaymentMethod: method,
		Items:         make([]domain.SaleItem, 0, len(snapshot.Items)),
	}
	if method.Asynchronous() {
		req.RedirectURL = redirectURL
	}
	for _, line := range snapshot.Items {
		req.Items = append(req.Items, domain.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return req
}
