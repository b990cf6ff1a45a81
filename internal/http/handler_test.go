package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/auth"
	"github.com/prudentjag/inventory-pos/internal/backend"
	"github.com/prudentjag/inventory-pos/internal/catalog"
	"github.com/prudentjag/inventory-pos/internal/poller"
	"github.com/prudentjag/inventory-pos/internal/session"
)

type fakeSalesBackend struct {
	mu         sync.Mutex
	saleResult *domain.SaleResult
	saleErr    error
}

func (b *fakeSalesBackend) CreateSale(context.Context, *domain.SaleRequest, string) (*domain.SaleResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saleErr != nil {
		return nil, b.saleErr
	}
	return b.saleResult, nil
}

func (b *fakeSalesBackend) VerifyPayment(context.Context, string) (domain.PaymentStatus, *domain.Sale, error) {
	return domain.PaymentStatusPending, nil, nil
}

type fakeCatalog struct {
	mu          sync.Mutex
	items       []domain.InventoryItem
	invalidated int
}

func (c *fakeCatalog) GetInventory(context.Context, int64) ([]domain.InventoryItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items, nil
}

func (c *fakeCatalog) FindProduct(_ context.Context, _ int64, productID int64) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Product.ID == productID {
			return item.Product, nil
		}
	}
	return domain.Product{}, catalog.ErrProductNotFound
}

func (c *fakeCatalog) Invalidate(int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
}

func (c *fakeCatalog) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

type testServer struct {
	srv     *httptest.Server
	backend *fakeSalesBackend
	catalog *fakeCatalog
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	salesBackend := &fakeSalesBackend{
		saleResult: &domain.SaleResult{Sale: domain.Sale{ID: 501}},
	}
	cat := &fakeCatalog{
		items: []domain.InventoryItem{
			{Product: domain.Product{ID: 1, Name: "Heineken 33cl", SKU: "HNK-33", Price: 1500}, Quantity: 24},
			{Product: domain.Product{ID: 2, Name: "Guinness Stout", Price: 1800}, Quantity: 12},
		},
	}

	sess := auth.Session{Token: "tok", UnitID: 7, Cashier: "Ada"}
	pollCfg := poller.Config{Interval: 10 * time.Millisecond, MaxAttempts: 3}
	sessions := session.NewManager(salesBackend, sess, pollCfg)
	t.Cleanup(sessions.CloseAll)

	handler := NewHandler(sessions, cat, 7, 5*time.Second)
	srv := httptest.NewServer(RequestIDMiddleware(handler.Routes()))
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, backend: salesBackend, catalog: cat}
}

func (ts *testServer) request(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (ts *testServer) openSession(t *testing.T) string {
	t.Helper()
	resp, raw := ts.request(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body sessionResponseDTO
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body.SessionID)
	return body.SessionID
}

func TestListProducts(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := ts.request(t, http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []productResponseDTO
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Heineken 33cl", products[0].Name)
	assert.Equal(t, int32(24), products[0].Quantity)
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := ts.request(t, http.MethodGet, "/sessions/nope/cart", nil)

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "session_not_found", body.Code)
}

func TestCartLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)
	base := "/sessions/" + id

	// two Heinekens merge into one line
	resp, _ := ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, raw := ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cart cartResponseDTO
	require.NoError(t, json.Unmarshal(raw, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(2), cart.Items[0].Quantity)
	assert.Equal(t, 3000.0, cart.Total)

	// decrement below one clamps
	resp, raw = ts.request(t, http.MethodPatch, base+"/cart/items/1", updateQuantityRequestDTO{Delta: -5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Equal(t, int32(1), cart.Items[0].Quantity)

	resp, raw = ts.request(t, http.MethodDelete, base+"/cart/items/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestAddItem_UnknownProductIs404(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)

	resp, raw := ts.request(t, http.MethodPost, "/sessions/"+id+"/cart/items", addItemRequestDTO{ProductID: 999})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "product_not_found", body.Code)
}

func TestInitiateCheckout_EmptyCartIsSilent204(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)

	resp, raw := ts.request(t, http.MethodPost, "/sessions/"+id+"/checkout", nil)

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, raw)
}

func TestSubmit_EmptyCartIs422(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)

	resp, raw := ts.request(t, http.MethodPost, "/sessions/"+id+"/checkout/submit",
		submitRequestDTO{PaymentMethod: "cash"})

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "empty_cart", body.Code)
}

func TestSubmit_UnknownPaymentMethodIs400(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)
	ts.request(t, http.MethodPost, "/sessions/"+id+"/cart/items", addItemRequestDTO{ProductID: 1})

	resp, raw := ts.request(t, http.MethodPost, "/sessions/"+id+"/checkout/submit",
		submitRequestDTO{PaymentMethod: "cowries"})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "invalid_payment_method", body.Code)
}

func TestFullCashFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)
	base := "/sessions/" + id

	ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})
	ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})

	resp, raw := ts.request(t, http.MethodPost, base+"/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state checkoutStateResponseDTO
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, "AWAITING_PAYMENT_CHOICE", state.State)

	resp, _ = ts.request(t, http.MethodPost, base+"/checkout/payment-method",
		selectPaymentMethodRequestDTO{PaymentMethod: "cash"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = ts.request(t, http.MethodPost, base+"/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var inv invoiceResponseDTO
	require.NoError(t, json.Unmarshal(raw, &inv))
	assert.Equal(t, int64(501), inv.SaleID)
	assert.Equal(t, "cash", inv.PaymentMethod)
	assert.Equal(t, "paid", inv.PaymentStatus)
	assert.Equal(t, 3000.0, inv.Total)
	assert.Equal(t, "₦3,000", inv.TotalFormatted)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, int32(2), inv.Items[0].Quantity)
	assert.Nil(t, inv.AccountDetails)

	assert.Equal(t, 1, ts.catalog.Invalidations(), "accepted sale invalidates the catalog")

	// cart emptied by acceptance
	resp, raw = ts.request(t, http.MethodGet, base+"/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart cartResponseDTO
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Empty(t, cart.Items)

	// invoice endpoints
	resp, raw = ts.request(t, http.MethodGet, base+"/invoice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = ts.request(t, http.MethodGet, base+"/invoice/print", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(raw), "Order 501")
	assert.Contains(t, string(raw), "₦3,000")

	resp, _ = ts.request(t, http.MethodDelete, base+"/invoice", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = ts.request(t, http.MethodGet, base+"/invoice", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "no_invoice", body.Code)
}

func TestSubmit_GatewayFlowReturnsPendingInvoice(t *testing.T) {
	ts := newTestServer(t)
	ts.backend.mu.Lock()
	ts.backend.saleResult = &domain.SaleResult{
		Sale: domain.Sale{ID: 502, InvoiceNumber: "INV-502", CheckoutURL: "https://pay.example/502"},
		Account: &domain.VirtualAccount{
			BankName:      "Moniepoint MFB",
			AccountNumber: "1012345678",
			Amount:        1500,
		},
	}
	ts.backend.mu.Unlock()

	id := ts.openSession(t)
	base := "/sessions/" + id
	ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})

	resp, raw := ts.request(t, http.MethodPost, base+"/checkout/submit",
		submitRequestDTO{PaymentMethod: "monnify", RedirectURL: "https://pos.example/return"})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv invoiceResponseDTO
	require.NoError(t, json.Unmarshal(raw, &inv))
	assert.Equal(t, "pending", inv.PaymentStatus)
	assert.Equal(t, "INV-502", inv.InvoiceNumber)
	assert.Equal(t, "https://pay.example/502", inv.CheckoutURL)
	require.NotNil(t, inv.AccountDetails)
	assert.Equal(t, "Moniepoint MFB", inv.AccountDetails.BankName)
	assert.Equal(t, "1012345678", inv.AccountDetails.AccountNumber)
}

func TestSubmit_BackendRejectionComesBackVerbatim(t *testing.T) {
	ts := newTestServer(t)
	ts.backend.mu.Lock()
	ts.backend.saleErr = &backend.APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "Insufficient stock for Heineken 33cl",
	}
	ts.backend.mu.Unlock()

	id := ts.openSession(t)
	base := "/sessions/" + id
	ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})

	resp, raw := ts.request(t, http.MethodPost, base+"/checkout/submit",
		submitRequestDTO{PaymentMethod: "cash"})

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Insufficient stock for Heineken 33cl", body.Error)

	// cart survives the rejection for a retry
	resp, raw = ts.request(t, http.MethodGet, base+"/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart cartResponseDTO
	require.NoError(t, json.Unmarshal(raw, &cart))
	require.Len(t, cart.Items, 1)
}

func TestCheckoutErrorsCarryRequestID(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)

	payload, err := json.Marshal(submitRequestDTO{PaymentMethod: "cash"})
	require.NoError(t, err)

	// empty cart, so the submit fails through the checkout error path
	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/sessions/"+id+"/checkout/submit", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-test-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "req-test-123", resp.Header.Get("X-Request-ID"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "empty_cart", body.Code)
	assert.Equal(t, "req-test-123", body.Details)
}

func TestUpdateQuantity_RejectsZeroDelta(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)
	base := "/sessions/" + id
	ts.request(t, http.MethodPost, base+"/cart/items", addItemRequestDTO{ProductID: 1})

	resp, _ := ts.request(t, http.MethodPatch, base+"/cart/items/1", updateQuantityRequestDTO{Delta: 0})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCloseSession(t *testing.T) {
	ts := newTestServer(t)
	id := ts.openSession(t)

	resp, _ := ts.request(t, http.MethodDelete, fmt.Sprintf("/sessions/%s", id), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.request(t, http.MethodGet, "/sessions/"+id+"/cart", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
