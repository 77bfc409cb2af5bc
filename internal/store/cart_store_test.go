package store

import (
	"context"
	"testing"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T, kv *mockKV) *CartStore {
	t.Helper()
	s := NewCartStore(context.Background(), kv, nil)
	s.newID = sequentialIDs()
	return s
}

func TestAddItem_MergesQuantityForSameProduct(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	p1 := product("p1", 100)

	cart.AddItem(ctx, p1, 1)
	cart.AddItem(ctx, p1, 2)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "line-1", items[0].ID)
	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 3, cart.ItemCount())
}

func TestAddItem_SumOfAllAdds(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	p := product("p1", 7)
	adds := []int{1, 4, 2, 9, 3}

	sum := 0
	for _, q := range adds {
		cart.AddItem(ctx, p, q)
		sum += q
	}

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, sum, items[0].Quantity)
}

func TestAddItem_RefreshesProductSnapshotOnMerge(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())

	cart.AddItem(ctx, product("p1", 100), 1)
	cart.AddItem(ctx, product("p1", 120), 1)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Product.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(240)))
}

func TestAddItem_NonPositiveQuantityIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	cart := newTestCart(t, kv)
	cart.AddItem(ctx, product("p1", 100), 2)

	cart.AddItem(ctx, product("p1", 100), 0)
	cart.AddItem(ctx, product("p1", 100), -5)
	cart.AddItem(ctx, product("p2", 100), -1)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, kv.writeCount())
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())

	cart.AddItem(ctx, product("p2", 10), 1)
	cart.AddItem(ctx, product("p1", 10), 1)
	cart.AddItem(ctx, product("p3", 10), 1)
	cart.AddItem(ctx, product("p1", 10), 1)

	var ids []string
	for _, item := range cart.Items() {
		ids = append(ids, item.ProductID)
	}
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids)
}

func TestRemoveItem_EmptiesCart(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	p1 := product("p1", 100)

	cart.AddItem(ctx, p1, 2)
	cart.RemoveItem(ctx, p1.ID)

	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.TotalPrice().IsZero())
	assert.Empty(t, cart.Items())
}

func TestRemoveItem_UnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	cart.AddItem(ctx, product("p1", 100), 2)

	cart.RemoveItem(ctx, "missing")

	assert.Equal(t, 2, cart.ItemCount())
}

func TestUpdateQuantity_OverwritesQuantity(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	cart.AddItem(ctx, product("p1", 25), 2)

	cart.UpdateQuantity(ctx, "p1", 5)

	assert.Equal(t, 5, cart.ItemCount())
	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(125)))
}

func TestUpdateQuantity_MissingLineIsNoop(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	cart.AddItem(ctx, product("p1", 25), 2)

	cart.UpdateQuantity(ctx, "p9", 5)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestUpdateQuantity_NonPositiveMatchesRemove(t *testing.T) {
	for _, q := range []int{0, -1, -40} {
		ctx := context.Background()
		updated := newTestCart(t, newMockKV())
		removed := newTestCart(t, newMockKV())
		for _, c := range []*CartStore{updated, removed} {
			c.AddItem(ctx, product("p1", 10), 3)
			c.AddItem(ctx, product("p2", 20), 1)
		}

		updated.UpdateQuantity(ctx, "p1", q)
		removed.RemoveItem(ctx, "p1")

		assert.Equal(t, removed.Items(), updated.Items(), "quantity %d", q)
		assert.True(t, removed.TotalPrice().Equal(updated.TotalPrice()))
	}
}

func TestClearCart_ResetsAggregates(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	cart.AddItem(ctx, product("p1", 100), 2)
	cart.AddItem(ctx, product("p2", 50), 1)

	cart.ClearCart(ctx)

	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.TotalPrice().IsZero())

	// clearing an empty cart is fine too
	cart.ClearCart(ctx)
	assert.Equal(t, 0, cart.ItemCount())
}

func TestTotalPrice_MatchesLineSum(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	cart.AddItem(ctx, domain.Product{ID: "a", Price: decimal.RequireFromString("1999.99")}, 2)
	cart.AddItem(ctx, domain.Product{ID: "b", Price: decimal.RequireFromString("0.01")}, 3)
	cart.UpdateQuantity(ctx, "a", 1)
	cart.AddItem(ctx, domain.Product{ID: "c", Price: decimal.RequireFromString("250.5")}, 4)
	cart.RemoveItem(ctx, "b")

	expected := decimal.Zero
	for _, item := range cart.Items() {
		expected = expected.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, expected.Equal(cart.TotalPrice()))
	assert.Equal(t, "2001.99", cart.TotalPrice().StringFixed(2))
}

func TestCartStore_EveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	cart := newTestCart(t, kv)

	cart.AddItem(ctx, product("p1", 10), 1)
	cart.UpdateQuantity(ctx, "p1", 4)
	cart.RemoveItem(ctx, "p1")
	cart.ClearCart(ctx)

	assert.Equal(t, 4, kv.writeCount())
}

func TestCartStore_RoundTripThroughPersistence(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	cart := newTestCart(t, kv)
	cart.AddItem(ctx, product("p3", 300), 1)
	cart.AddItem(ctx, product("p1", 100), 2)
	cart.AddItem(ctx, product("p2", 200), 5)
	cart.UpdateQuantity(ctx, "p1", 7)

	reloaded := NewCartStore(ctx, kv, nil)

	want := cart.Items()
	got := reloaded.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Equal(t, want[i].Product.Name, got[i].Product.Name)
		assert.Equal(t, want[i].Product.Images, got[i].Product.Images)
		assert.True(t, want[i].Product.Price.Equal(got[i].Product.Price))
	}
	assert.True(t, cart.TotalPrice().Equal(reloaded.TotalPrice()))
}

func TestCartStore_SnapshotFormat(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	cart := newTestCart(t, kv)

	cart.AddItem(ctx, domain.Product{ID: "p1", Name: "Ring", Price: decimal.NewFromInt(100)}, 2)

	raw, err := kv.Get(ctx, CartStorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[{"id":"line-1","productId":"p1","quantity":2,"product":{`)
}

func TestCartStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	require.NoError(t, kv.Set(ctx, CartStorageKey, []byte("{not json")))

	cart := NewCartStore(ctx, kv, nil)

	assert.Empty(t, cart.Items())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestCartStore_RestoreDropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	payload := `{"items":[
		{"id":"a","productId":"p1","quantity":2,"product":{"id":"p1","price":"10"}},
		{"id":"b","productId":"p2","quantity":0,"product":{"id":"p2","price":"10"}},
		{"id":"c","productId":"p1","quantity":1,"product":{"id":"p1","price":"10"}},
		{"id":"d","productId":"","quantity":1,"product":{"price":"10"}}
	]}`
	require.NoError(t, kv.Set(ctx, CartStorageKey, []byte(payload)))

	cart := NewCartStore(ctx, kv, nil)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
}

func TestCartStore_PersistenceFailureDoesNotBlockMutation(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	cart := newTestCart(t, kv)
	kv.err = errDiskFull

	cart.AddItem(ctx, product("p1", 100), 2)

	assert.Equal(t, 2, cart.ItemCount())
	assert.Equal(t, 1, kv.writeCount())
}

func TestCartStore_SubscribersSeeEveryMutation(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	var counts []int
	unsubscribe := cart.Subscribe(func(s domain.CartSnapshot) {
		n := 0
		for _, item := range s.Items {
			n += item.Quantity
		}
		counts = append(counts, n)
	})

	cart.AddItem(ctx, product("p1", 10), 2)
	cart.AddItem(ctx, product("p2", 10), 1)
	unsubscribe()
	cart.ClearCart(ctx)

	assert.Equal(t, []int{2, 3}, counts)
}

func TestCartStore_ItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	cart := newTestCart(t, newMockKV())
	cart.AddItem(ctx, product("p1", 10), 2)

	items := cart.Items()
	items[0].Quantity = 99
	items[0].Product.Images[0] = "changed.jpg"

	fresh := cart.Items()
	assert.Equal(t, 2, fresh[0].Quantity)
	assert.Equal(t, "p1.jpg", fresh[0].Product.Images[0])
}
