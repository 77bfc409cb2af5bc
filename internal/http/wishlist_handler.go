package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/go-chi/chi/v5"
)

type WishlistStore interface {
	Toggle(ctx context.Context, product domain.Product) bool
	RemoveItem(ctx context.Context, productID string)
	Items() []domain.WishlistEntry
	Count() int
}

type WishlistHandler struct {
	wishlist WishlistStore
	catalog  Catalog
	timeout  time.Duration
}

func NewWishlistHandler(wishlist WishlistStore, catalog Catalog, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		catalog:  catalog,
		timeout:  timeout,
	}
}

type WishlistResponseDTO struct {
	Items []domain.WishlistEntry `json:"items"`
	Count int                    `json:"count"`
}

type ToggleResponseDTO struct {
	InWishlist bool `json:"inWishlist"`
	WishlistResponseDTO
}

// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.snapshot())
}

// POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRefDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	product, ok := resolveProduct(ctx, w, h.catalog, req)
	if !ok {
		return
	}

	added := h.wishlist.Toggle(ctx, product)
	respondJSON(w, http.StatusOK, ToggleResponseDTO{
		InWishlist:          added,
		WishlistResponseDTO: h.snapshot(),
	})
}

// DELETE /api/v1/wishlist/{productID}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id is required")
		return
	}

	h.wishlist.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, h.snapshot())
}

func (h *WishlistHandler) snapshot() WishlistResponseDTO {
	items := h.wishlist.Items()
	if items == nil {
		items = []domain.WishlistEntry{}
	}
	return WishlistResponseDTO{Items: items, Count: h.wishlist.Count()}
}
