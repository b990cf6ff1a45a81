package http

import (
	"context"
	"net/http"

	"github.com/prudentjag/inventory-pos/domain"
)

type productResponseDTO struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit_of_measurement,omitempty"`
	Quantity  int32   `json:"quantity"`
}

// GET /products
// Supplies the product grid: the unit's catalog with stock levels.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.catalog.GetInventory(ctx, h.unitID)
	if err != nil {
		handleCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTOs(items))
}

func toProductDTOs(items []domain.InventoryItem) []productResponseDTO {
	dtos := make([]productResponseDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, productResponseDTO{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Price:     item.Product.Price,
			Unit:      item.Product.Unit,
			Quantity:  item.Quantity,
		})
	}
	return dtos
}
