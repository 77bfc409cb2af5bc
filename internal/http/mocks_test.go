package http

import (
	"context"
	"sync"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/gateway"
)

// CatalogMock serves a fixed product list
type CatalogMock struct {
	products []domain.Product
	err      error
	filters  []domain.ProductFilter
}

func (c *CatalogMock) GetProducts(context.Context) ([]domain.Product, error) {
	return c.products, c.err
}

func (c *CatalogMock) GetProductBySlug(_ context.Context, slug string) (domain.Product, error) {
	if c.err != nil {
		return domain.Product{}, c.err
	}
	for _, p := range c.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, gateway.ErrNotFound
}

func (c *CatalogMock) FilterProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	c.filters = append(c.filters, filter)
	return c.products, c.err
}

// GatewayMock implements checkout.OrderGateway
type GatewayMock struct {
	mu       sync.Mutex
	order    domain.Order
	status   domain.VerificationStatus
	requests []domain.OrderRequest
}

func (g *GatewayMock) CreateOrder(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.order, nil
}

func (g *GatewayMock) VerifyPayment(context.Context, domain.PaymentAttempt) (domain.VerificationResult, error) {
	return domain.VerificationResult{Status: g.status}, nil
}

func (g *GatewayMock) lastRequest() domain.OrderRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}
