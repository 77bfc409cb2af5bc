package domain

type WishlistEntry struct {
	ProductID string  `json:"productId"`
	Product   Product `json:"product"`
}

// WishlistSnapshot is the persisted form of the wishlist.
type WishlistSnapshot struct {
	Items []WishlistEntry `json:"items"`
}
