package gateway

import (
	"context"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductSource is the read-only catalog side of the gateway.
type ProductSource interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// Catalog collapses concurrent identical catalog reads into one gateway call.
type Catalog struct {
	source ProductSource
	sfg    singleflight.Group
}

func NewCatalog(source ProductSource) *Catalog {
	return &Catalog{source: source}
}

func (c *Catalog) GetProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		return c.source.GetProducts(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cloneProducts(v.([]domain.Product)), nil
}

func (c *Catalog) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	v, err, _ := c.sfg.Do("slug:"+slug, func() (interface{}, error) {
		return c.source.GetProductBySlug(ctx, slug)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product).Clone(), nil
}

// FilterProducts is passed straight through; filters rarely repeat concurrently.
func (c *Catalog) FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return c.source.FilterProducts(ctx, filter)
}

func cloneProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
