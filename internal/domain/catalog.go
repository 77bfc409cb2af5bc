package domain

import "github.com/shopspring/decimal"

// ProductFilter narrows a catalog listing. Zero fields do not filter.
type ProductFilter struct {
	Category string           `json:"category,omitempty"`
	Tags     []string         `json:"tags,omitempty"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	InStock  *bool            `json:"inStock,omitempty"`
}
