package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/auth"
	"github.com/prudentjag/inventory-pos/internal/cart"
	"github.com/prudentjag/inventory-pos/internal/checkout"
	"github.com/prudentjag/inventory-pos/internal/poller"
)

var ErrSessionNotFound = errors.New("session not found")

// Backend is the slice of the sales backend the session flow needs.
type Backend interface {
	CreateSale(ctx context.Context, req *domain.SaleRequest, idempotencyKey string) (*domain.SaleResult, error)
	VerifyPayment(ctx context.Context, ref string) (domain.PaymentStatus, *domain.Sale, error)
}

// Manager tracks the terminal's sessions and hands each one its own cart
// and orchestrator.
type Manager struct {
	backend   Backend
	auth      auth.Session
	pollCfg   poller.Config
	listeners poller.Listeners

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(b Backend, sess auth.Session, pollCfg poller.Config, listeners ...poller.Listener) *Manager {
	return &Manager{
		backend:   b,
		auth:      sess,
		pollCfg:   pollCfg,
		listeners: listeners,
		sessions:  make(map[string]*Session),
	}
}

func (m *Manager) Open() *Session {
	c := cart.New()
	s := &Session{
		ID:            uuid.NewString(),
		cart:          c,
		checkout:      checkout.NewOrchestrator(m.backend, m.auth, c),
		statusBackend: m.backend,
		listeners:     m.listeners,
		pollCfg:       m.pollCfg,
		cashier:       m.auth.Cashier,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close dismisses any open invoice (stopping its poller) and drops the
// session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.DismissInvoice()
	return nil
}

// CloseAll tears down every session, used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.DismissInvoice()
	}
}
