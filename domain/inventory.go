package domain

// Product as sold at a unit. The backend serializes products in more than
// one shape; the client resolves them all into this.
type Product struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Unit      string  `json:"unit_of_measurement"`
}

// InventoryItem is a product together with its stock level at one unit.
type InventoryItem struct {
	Product  Product `json:"product"`
	Quantity int32   `json:"quantity"`
}
