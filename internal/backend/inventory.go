package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prudentjag/inventory-pos/domain"
)

type productDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Price        float64 `json:"price"`
	SellingPrice float64 `json:"selling_price"`
	CostPrice    float64 `json:"cost_price"`
	Unit         string  `json:"unit_of_measurement"`
}

func (d productDTO) toDomain() domain.Product {
	price := d.Price
	if price == 0 {
		price = d.SellingPrice
	}
	return domain.Product{
		ID:        d.ID,
		Name:      d.Name,
		SKU:       d.SKU,
		Price:     price,
		CostPrice: d.CostPrice,
		Unit:      d.Unit,
	}
}

// productField accepts both shapes the backend emits for "product": a bare
// name string on some endpoints, a full object on others. The ambiguity is
// resolved here; callers only ever see domain.Product.
type productField struct {
	product domain.Product
}

func (f *productField) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		f.product = domain.Product{Name: name}
		return nil
	}
	var dto productDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return err
	}
	f.product = dto.toDomain()
	return nil
}

type inventoryItemDTO struct {
	Product  productField `json:"product"`
	Quantity int32        `json:"quantity"`
}

// ListInventory fetches the product catalog with stock levels for one unit.
func (c *Client) ListInventory(ctx context.Context, unitID int64) ([]domain.InventoryItem, error) {
	data, err := c.get(ctx, fmt.Sprintf("/inventory?unit_id=%d", unitID))
	if err != nil {
		return nil, err
	}

	var dtos []inventoryItemDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}

	items := make([]domain.InventoryItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, domain.InventoryItem{
			Product:  dto.Product.product,
			Quantity: dto.Quantity,
		})
	}
	return items, nil
}
