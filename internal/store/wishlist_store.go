package store

import (
	"context"
	"sync"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/persistence"
	"go.uber.org/zap"
)

const WishlistStorageKey = "wishlist-storage"

// WishlistStore owns the set of saved products, kept in insertion order.
type WishlistStore struct {
	mu       sync.Mutex
	items    []domain.WishlistEntry
	snapshot *persistence.Snapshotter[domain.WishlistSnapshot]
	logger   *zap.Logger
	subs     observers[domain.WishlistSnapshot]
}

func NewWishlistStore(ctx context.Context, kv persistence.KeyValueStore, logger *zap.Logger) *WishlistStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &WishlistStore{
		snapshot: persistence.NewSnapshotter[domain.WishlistSnapshot](kv, WishlistStorageKey, logger),
		logger:   logger,
	}
	for _, entry := range s.snapshot.Load(ctx).Items {
		if entry.ProductID != "" && indexOfEntry(s.items, entry.ProductID) < 0 {
			s.items = append(s.items, entry)
		}
	}
	return s
}

// AddItem saves product unless it is already saved.
func (s *WishlistStore) AddItem(ctx context.Context, product domain.Product) {
	if product.ID == "" {
		return
	}
	s.mutate(ctx, func(items []domain.WishlistEntry) []domain.WishlistEntry {
		if indexOfEntry(items, product.ID) >= 0 {
			return items
		}
		return append(items, domain.WishlistEntry{ProductID: product.ID, Product: product.Clone()})
	})
}

func (s *WishlistStore) RemoveItem(ctx context.Context, productID string) {
	s.mutate(ctx, func(items []domain.WishlistEntry) []domain.WishlistEntry {
		i := indexOfEntry(items, productID)
		if i < 0 {
			return items
		}
		return append(items[:i:i], items[i+1:]...)
	})
}

// Toggle removes product if saved and saves it otherwise. It returns whether the
// product is saved afterwards.
func (s *WishlistStore) Toggle(ctx context.Context, product domain.Product) bool {
	if product.ID == "" {
		return false
	}
	saved := false
	s.mutate(ctx, func(items []domain.WishlistEntry) []domain.WishlistEntry {
		if i := indexOfEntry(items, product.ID); i >= 0 {
			return append(items[:i:i], items[i+1:]...)
		}
		saved = true
		return append(items, domain.WishlistEntry{ProductID: product.ID, Product: product.Clone()})
	})
	return saved
}

func (s *WishlistStore) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOfEntry(s.items, productID) >= 0
}

func (s *WishlistStore) Items() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.items)
}

func (s *WishlistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *WishlistStore) Subscribe(fn func(domain.WishlistSnapshot)) func() {
	return s.subs.subscribe(fn)
}

func (s *WishlistStore) mutate(ctx context.Context, apply func([]domain.WishlistEntry) []domain.WishlistEntry) {
	s.mu.Lock()
	s.items = apply(s.items)
	state := domain.WishlistSnapshot{Items: copyEntries(s.items)}
	if err := s.save(ctx, state); err != nil {
		s.logger.Error("wishlist snapshot write failed", zap.Error(err))
	}
	s.mu.Unlock()

	s.subs.notify(state)
}

func indexOfEntry(items []domain.WishlistEntry, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func copyEntries(items []domain.WishlistEntry) []domain.WishlistEntry {
	out := make([]domain.WishlistEntry, len(items))
	for i, entry := range items {
		entry.Product = entry.Product.Clone()
		out[i] = entry
	}
	return out
}

// save writes state even when ctx is already cancelled: the in-memory change has
// been applied and the durable copy has to follow it.
func (s *WishlistStore) save(ctx context.Context, state domain.WishlistSnapshot) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	return s.snapshot.Save(ctx, state)
}
