package checkout

import (
	"context"
	"sync"

	"github.com/prudentjag/inventory-pos/domain"
)

// MockSalesBackend implements SalesBackend for testing
type MockSalesBackend struct {
	mu       sync.Mutex
	Result   *domain.SaleResult
	Err      error
	calls    int
	lastKey  string
	lastReq  *domain.SaleRequest
	blocking chan struct{} // when set, CreateSale blocks until closed
}

func (m *MockSalesBackend) CreateSale(_ context.Context, req *domain.SaleRequest, key string) (*domain.SaleResult, error) {
	m.mu.Lock()
	m.calls++
	m.lastKey = key
	m.lastReq = req
	block := m.blocking
	m.mu.Unlock()

	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockSalesBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockSalesBackend) LastKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastKey
}

func (m *MockSalesBackend) LastRequest() *domain.SaleRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}
