package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/persistence"
	"github.com/shopspring/decimal"
)

// mockKV records every write and can be told to fail.
type mockKV struct {
	m      sync.Mutex
	data   map[string][]byte
	writes int
	err    error
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string][]byte)}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, persistence.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.writes++
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *mockKV) Clear(_ context.Context, key string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.data, key)
	return m.err
}

func (m *mockKV) writeCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.writes
}

var errDiskFull = errors.New("disk full")

func product(id string, price int64) domain.Product {
	return domain.Product{
		ID:          id,
		Slug:        "slug-" + id,
		Name:        fmt.Sprintf("Ring %s", id),
		Price:       decimal.NewFromInt(price),
		Images:      []string{id + ".jpg"},
		Tags:        []string{"gold"},
		InStock:     true,
		Rating:      4.5,
		ReviewCount: 12,
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
}
