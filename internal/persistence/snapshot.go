package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Snapshotter serializes a whole store state under one fixed key. The payload has no
// version field; changing T's JSON shape breaks previously saved data.
type Snapshotter[T any] struct {
	store  KeyValueStore
	key    string
	logger *zap.Logger
}

func NewSnapshotter[T any](store KeyValueStore, key string, logger *zap.Logger) *Snapshotter[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter[T]{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Load returns the last saved state. A missing or unreadable payload yields the zero
// value of T; corruption is logged and never returned.
func (s *Snapshotter[T]) Load(ctx context.Context) T {
	var state T

	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("snapshot load failed, starting empty", zap.String("key", s.key), zap.Error(err))
		}
		return state
	}

	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("snapshot corrupted, starting empty", zap.String("key", s.key), zap.Error(err))
		var empty T
		return empty
	}
	return state
}

func (s *Snapshotter[T]) Save(ctx context.Context, state T) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s failed: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save snapshot %s failed: %w", s.key, err)
	}
	return nil
}
