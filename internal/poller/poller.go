package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prudentjag/inventory-pos/domain"
)

// StatusBackend answers payment-status queries for a sale.
type StatusBackend interface {
	VerifyPayment(ctx context.Context, ref string) (domain.PaymentStatus, *domain.Sale, error)
}

// Listener is notified exactly once when polling reaches a terminal
// outcome. The sale passed in carries the final status observed.
type Listener interface {
	PaymentConfirmed(ctx context.Context, sale domain.Sale)
	PaymentFailed(ctx context.Context, sale domain.Sale)
	PaymentUnresolved(ctx context.Context, sale domain.Sale)
}

// Listeners fans out to every listener in order.
type Listeners []Listener

func (ls Listeners) PaymentConfirmed(ctx context.Context, sale domain.Sale) {
	for _, l := range ls {
		l.PaymentConfirmed(ctx, sale)
	}
}

func (ls Listeners) PaymentFailed(ctx context.Context, sale domain.Sale) {
	for _, l := range ls {
		l.PaymentFailed(ctx, sale)
	}
}

func (ls Listeners) PaymentUnresolved(ctx context.Context, sale domain.Sale) {
	for _, l := range ls {
		l.PaymentUnresolved(ctx, sale)
	}
}

type Config struct {
	Interval    time.Duration
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 60
	}
	return c
}

// Poller repeatedly checks a pending sale until the payment lands, fails,
// the attempt budget runs out, or it is cancelled. Ticks are strictly
// sequential: the next query is only scheduled after the previous response
// has been applied, so at most one request is ever in flight.
type Poller struct {
	backend  StatusBackend
	listener Listener
	cfg      Config

	mu     sync.Mutex
	sale   domain.Sale
	status domain.PaymentStatus
	done   bool
}

func New(backend StatusBackend, listener Listener, sale domain.Sale, cfg Config) *Poller {
	return &Poller{
		backend:  backend,
		listener: listener,
		cfg:      cfg.withDefaults(),
		sale:     sale,
		status:   domain.PaymentStatusPending,
	}
}

// Status is the last status applied by the poll loop.
func (p *Poller) Status() domain.PaymentStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Done reports whether polling has stopped for good.
func (p *Poller) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Run blocks until a terminal outcome or cancellation. Cancelling ctx stops
// polling immediately; a response already in flight at that point is
// discarded, never applied.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	ref := p.sale.Reference()

	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		status, sale, err := p.backend.VerifyPayment(ctx, ref)
		if err != nil {
			// transport trouble is not a payment failure; try again on the
			// next tick
			log.Printf("verify payment %v: %v", ref, err)
			continue
		}
		if ctx.Err() != nil {
			return
		}

		p.mu.Lock()
		if p.done {
			p.mu.Unlock()
			return
		}
		if sale != nil {
			p.sale = *sale
		}
		p.status = status
		p.sale.PaymentStatus = status
		terminal := status.IsTerminal()
		if terminal {
			p.done = true
		}
		final := p.sale
		p.mu.Unlock()

		if !terminal {
			continue
		}
		if status.Confirmed() {
			p.listener.PaymentConfirmed(ctx, final)
		} else {
			p.listener.PaymentFailed(ctx, final)
		}
		return
	}

	// attempt budget exhausted with the payment still pending
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return
	}
	p.done = true
	final := p.sale
	p.mu.Unlock()

	log.Printf("payment for sale %v unresolved after %d attempts", ref, p.cfg.MaxAttempts)
	p.listener.PaymentUnresolved(ctx, final)
}
