package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
)

// ConversionQueueStore persists a ConversionQueue as one JSON value in a key-value store.
type ConversionQueueStore struct {
	kv  portsrepo.KeyValueStore
	key string
}

// NewConversionQueueStore creates a store writing the queue under key.
func NewConversionQueueStore(kv portsrepo.KeyValueStore, key string) *ConversionQueueStore {
	return &ConversionQueueStore{kv: kv, key: key}
}

// Key returns the key the queue is stored under.
func (s *ConversionQueueStore) Key() string {
	return s.key
}

// Load returns the persisted queue, or an empty one when nothing was stored yet.
func (s *ConversionQueueStore) Load(ctx context.Context) (domain.ConversionQueue, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return domain.ConversionQueue{}, fmt.Errorf("failed to read conversion queue %s: %w", s.key, err)
	}
	if !found || raw == "" {
		return domain.ConversionQueue{Tasks: []domain.ConversionTask{}}, nil
	}
	var q domain.ConversionQueue
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return domain.ConversionQueue{}, fmt.Errorf("failed to decode conversion queue %s: %w", s.key, err)
	}
	if q.Tasks == nil {
		q.Tasks = []domain.ConversionTask{}
	}
	return q, nil
}

// Save overwrites the persisted queue.
func (s *ConversionQueueStore) Save(ctx context.Context, q domain.ConversionQueue) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode conversion queue: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to write conversion queue %s: %w", s.key, err)
	}
	return nil
}
