package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewProductHandler(catalog Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// GET /api/v1/products
// Any of category, tag (repeatable), minPrice, maxPrice and inStock narrows the list.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter, filtered, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	var products []domain.Product
	if filtered {
		products, err = h.catalog.FilterProducts(ctx, filter)
	} else {
		products, err = h.catalog.GetProducts(ctx)
	}
	if err != nil {
		handleGatewayError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

// GET /api/v1/products/{slug}
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "slug is required")
		return
	}
	product, err := h.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		handleGatewayError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func parseFilter(r *http.Request) (domain.ProductFilter, bool, error) {
	q := r.URL.Query()
	var f domain.ProductFilter
	filtered := false

	if c := strings.TrimSpace(q.Get("category")); c != "" {
		f.Category = c
		filtered = true
	}
	for _, tag := range q["tag"] {
		if tag = strings.TrimSpace(tag); tag != "" {
			f.Tags = append(f.Tags, tag)
			filtered = true
		}
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, false, errors.New("minPrice must be a number")
		}
		f.MinPrice = &d
		filtered = true
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, false, errors.New("maxPrice must be a number")
		}
		f.MaxPrice = &d
		filtered = true
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return f, false, errors.New("minPrice must not exceed maxPrice")
	}
	if v := q.Get("inStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, false, errors.New("inStock must be true or false")
		}
		f.InStock = &b
		filtered = true
	}
	return f, filtered, nil
}
