package domain

import "github.com/shopspring/decimal"

// CartLineItem holds one product in the cart. Product is copied at add time and its
// price is the one used for totals, even if the catalog price has moved since.
type CartLineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// Subtotal is the line price times quantity.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSnapshot is the persisted form of the cart.
type CartSnapshot struct {
	Items []CartLineItem `json:"items"`
}
