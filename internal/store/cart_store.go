package store

import (
	"context"
	"sync"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const CartStorageKey = "cart-storage"

// persistTimeout bounds one snapshot write.
const persistTimeout = 5 * time.Second

// CartStore owns the cart line items. Mutations never fail: bad input is normalized
// and persistence errors are logged. Each mutation is applied and snapshotted under
// the store lock, so no reader sees a half-applied change.
type CartStore struct {
	mu       sync.Mutex
	items    []domain.CartLineItem
	snapshot *persistence.Snapshotter[domain.CartSnapshot]
	logger   *zap.Logger
	newID    func() string
	subs     observers[domain.CartSnapshot]
}

// NewCartStore restores the last saved cart from kv, or starts empty.
func NewCartStore(ctx context.Context, kv persistence.KeyValueStore, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CartStore{
		snapshot: persistence.NewSnapshotter[domain.CartSnapshot](kv, CartStorageKey, logger),
		logger:   logger,
		newID:    uuid.NewString,
	}
	s.items = restoreCartItems(s.snapshot.Load(ctx).Items)
	return s
}

// AddItem merges quantity into the line for product.ID, refreshing its product copy,
// or appends a new line. A non-positive quantity adds nothing.
func (s *CartStore) AddItem(ctx context.Context, product domain.Product, quantity int) {
	if quantity <= 0 || product.ID == "" {
		return
	}
	s.mutate(ctx, func(items []domain.CartLineItem) []domain.CartLineItem {
		if i := indexOfLine(items, product.ID); i >= 0 {
			items[i].Quantity += quantity
			items[i].Product = product.Clone()
			return items
		}
		return append(items, domain.CartLineItem{
			ID:        s.newID(),
			ProductID: product.ID,
			Quantity:  quantity,
			Product:   product.Clone(),
		})
	})
}

func (s *CartStore) RemoveItem(ctx context.Context, productID string) {
	s.mutate(ctx, func(items []domain.CartLineItem) []domain.CartLineItem {
		i := indexOfLine(items, productID)
		if i < 0 {
			return items
		}
		return append(items[:i:i], items[i+1:]...)
	})
}

// UpdateQuantity overwrites the quantity of an existing line. quantity <= 0 removes
// the line, exactly like RemoveItem.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	s.mutate(ctx, func(items []domain.CartLineItem) []domain.CartLineItem {
		if i := indexOfLine(items, productID); i >= 0 {
			items[i].Quantity = quantity
		}
		return items
	})
}

func (s *CartStore) ClearCart(ctx context.Context) {
	s.mutate(ctx, func([]domain.CartLineItem) []domain.CartLineItem {
		return nil
	})
}

// TotalPrice is Σ price × quantity over the current lines.
func (s *CartStore) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is Σ quantity over the current lines.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns the lines in insertion order.
func (s *CartStore) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.items)
}

// Subscribe registers fn to receive the cart state after every mutation. The
// returned func unsubscribes.
func (s *CartStore) Subscribe(fn func(domain.CartSnapshot)) func() {
	return s.subs.subscribe(fn)
}

func (s *CartStore) mutate(ctx context.Context, apply func([]domain.CartLineItem) []domain.CartLineItem) {
	s.mu.Lock()
	s.items = apply(s.items)
	state := domain.CartSnapshot{Items: copyLines(s.items)}
	if err := s.save(ctx, state); err != nil {
		s.logger.Error("cart snapshot write failed", zap.Error(err))
	}
	s.mu.Unlock()

	s.subs.notify(state)
}

func indexOfLine(items []domain.CartLineItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func copyLines(items []domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(items))
	for i, item := range items {
		item.Product = item.Product.Clone()
		out[i] = item
	}
	return out
}

// restoreCartItems drops lines a valid cart could never hold.
func restoreCartItems(items []domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 || indexOfLine(out, item.ProductID) >= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}

// save writes state even when ctx is already cancelled: the in-memory change has
// been applied and the durable copy has to follow it.
func (s *CartStore) save(ctx context.Context, state domain.CartSnapshot) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	return s.snapshot.Save(ctx, state)
}
