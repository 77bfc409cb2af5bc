package domain

import "github.com/shopspring/decimal"

// Product is a read-only snapshot of a catalog entry as served by the gateway.
type Product struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Tags        []string        `json:"tags"`
	InStock     bool            `json:"inStock"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	c := p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return c
}
