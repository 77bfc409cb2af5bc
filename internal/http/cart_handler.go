package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/checkout"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxQuantity = 99

type CartStore interface {
	AddItem(ctx context.Context, product domain.Product, quantity int)
	RemoveItem(ctx context.Context, productID string)
	UpdateQuantity(ctx context.Context, productID string, quantity int)
	ClearCart(ctx context.Context)
	Items() []domain.CartLineItem
}

type Catalog interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// CheckoutStatus reports where the running checkout is, if any.
type CheckoutStatus interface {
	Status() checkout.Status
}

type CartHandler struct {
	cart     CartStore
	catalog  Catalog
	checkout CheckoutStatus
	timeout  time.Duration
}

// NewCartHandler builds the cart endpoints. With a nil status the cart is never
// locked.
func NewCartHandler(cart CartStore, catalog Catalog, status CheckoutStatus, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:     cart,
		catalog:  catalog,
		checkout: status,
		timeout:  timeout,
	}
}

// RequireIdleCheckout refuses cart mutations while a checkout is running. The cart
// has to match the order amount until the checkout settles.
func (h *CartHandler) RequireIdleCheckout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.checkout != nil {
			if state := h.checkout.Status().State; state != checkout.StateIdle {
				respondError(w, http.StatusConflict, "checkout_in_progress", "cart is locked while checkout is "+state.String())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ProductRefDTO names a product either by catalog slug or by the full product the
// UI already holds.
type ProductRefDTO struct {
	Slug    string          `json:"slug,omitempty"`
	Product *domain.Product `json:"product,omitempty"`
}

type AddItemRequestDTO struct {
	ProductRefDTO
	Quantity int `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items      []domain.CartLineItem `json:"items"`
	ItemCount  int                   `json:"itemCount"`
	TotalPrice decimal.Decimal       `json:"totalPrice"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.snapshot())
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, ok := resolveProduct(ctx, w, h.catalog, req.ProductRefDTO)
	if !ok {
		return
	}

	h.cart.AddItem(ctx, product, req.Quantity)
	respondJSON(w, http.StatusCreated, h.snapshot())
}

// PUT /api/v1/cart/items/{productID}
// A quantity of zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	h.cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.snapshot())
}

// DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id is required")
		return
	}

	h.cart.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, h.snapshot())
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	respondJSON(w, http.StatusOK, h.snapshot())
}

// snapshot derives the aggregates from one copy of the lines so they always agree
// with the items in the same response.
func (h *CartHandler) snapshot() CartResponseDTO {
	resp := CartResponseDTO{
		Items:      h.cart.Items(),
		TotalPrice: decimal.Zero,
	}
	if resp.Items == nil {
		resp.Items = []domain.CartLineItem{}
	}
	for _, item := range resp.Items {
		resp.ItemCount += item.Quantity
		resp.TotalPrice = resp.TotalPrice.Add(item.Subtotal())
	}
	return resp
}

// resolveProduct writes the error response itself and reports false when the
// reference cannot be turned into a product.
func resolveProduct(ctx context.Context, w http.ResponseWriter, catalog Catalog, ref ProductRefDTO) (domain.Product, bool) {
	if ref.Product != nil {
		if strings.TrimSpace(ref.Product.ID) == "" {
			respondError(w, http.StatusBadRequest, "invalid_product", "product id is required")
			return domain.Product{}, false
		}
		if !ref.Product.Price.IsPositive() {
			respondError(w, http.StatusBadRequest, "invalid_product", "product price must be positive")
			return domain.Product{}, false
		}
		return *ref.Product, true
	}
	slug := strings.TrimSpace(ref.Slug)
	if slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "either slug or product is required")
		return domain.Product{}, false
	}
	product, err := catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		handleGatewayError(w, err)
		return domain.Product{}, false
	}
	return product, true
}
