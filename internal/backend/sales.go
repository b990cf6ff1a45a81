package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prudentjag/inventory-pos/domain"
)

type saleItemDTO struct {
	ProductID int64   `json:"product_id"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type createSalePayload struct {
	UnitID        int64         `json:"unit_id"`
	PaymentMethod string        `json:"payment_method"`
	RedirectURL   string        `json:"redirect_url,omitempty"`
	Items         []saleItemDTO `json:"items"`
}

type saleDTO struct {
	ID            int64   `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentStatus string  `json:"payment_status"`
	PaymentData   *struct {
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"payment_data"`
}

func (d saleDTO) toDomain() domain.Sale {
	s := domain.Sale{
		ID:            d.ID,
		InvoiceNumber: d.InvoiceNumber,
		TotalAmount:   d.TotalAmount,
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
	}
	if d.PaymentData != nil {
		s.CheckoutURL = d.PaymentData.CheckoutURL
	}
	return s
}

type accountDetailsDTO struct {
	BankName      string  `json:"bankName"`
	AccountNumber string  `json:"accountNumber"`
	Amount        float64 `json:"amount"`
	ExpiresOn     string  `json:"expiresOn"`
}

func (d accountDetailsDTO) toDomain() *domain.VirtualAccount {
	account := &domain.VirtualAccount{
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		Amount:        d.Amount,
	}
	if d.ExpiresOn != "" {
		if expires, err := time.Parse(time.RFC3339, d.ExpiresOn); err == nil {
			account.ExpiresOn = expires
		}
	}
	return account
}

type createSaleResponse struct {
	Sale           saleDTO            `json:"sale"`
	AccountDetails *accountDetailsDTO `json:"account_details"`
}

// CreateSale submits the sale. The idempotency key is minted per submission
// attempt; if the call times out after the backend already recorded the
// sale and decremented stock, a retry with the same key cannot double-sell.
func (c *Client) CreateSale(ctx context.Context, req *domain.SaleRequest, idempotencyKey string) (*domain.SaleResult, error) {
	payload := createSalePayload{
		UnitID:        req.UnitID,
		PaymentMethod: req.PaymentMethod.String(),
		RedirectURL:   req.RedirectURL,
		Items:         make([]saleItemDTO, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, saleItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	headers := map[string]string{"Idempotency-Key": idempotencyKey}
	data, err := c.do(ctx, http.MethodPost, "/sales", payload, headers)
	if err != nil {
		return nil, err
	}

	var body createSaleResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode sale response: %w", err)
	}

	result := &domain.SaleResult{Sale: body.Sale.toDomain()}
	if body.AccountDetails != nil {
		result.Account = body.AccountDetails.toDomain()
	}
	return result, nil
}

type verifyPaymentResponse struct {
	PaymentStatus string   `json:"payment_status"`
	Sale          *saleDTO `json:"sale"`
}

// VerifyPayment polls the payment status of a sale by invoice number or id.
// The updated sale is returned when the backend includes one.
func (c *Client) VerifyPayment(ctx context.Context, ref string) (domain.PaymentStatus, *domain.Sale, error) {
	data, err := c.get(ctx, "/sales/"+url.PathEscape(ref)+"/verify-payment")
	if err != nil {
		return "", nil, err
	}

	var body verifyPaymentResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return "", nil, fmt.Errorf("decode verify-payment response: %w", err)
	}

	status := domain.PaymentStatus(body.PaymentStatus)
	if body.Sale == nil {
		return status, nil, nil
	}
	sale := body.Sale.toDomain()
	if sale.PaymentStatus == "" {
		sale.PaymentStatus = status
	}
	return status, &sale, nil
}
