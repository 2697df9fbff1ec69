package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the key/value capability batches are persisted through.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "batch:"

func cacheKey(id string) string {
	return keyPrefix + id
}

// Store loads and saves batches of one kind.
type Store[S any] struct {
	cache     Cache
	kind      Kind
	ttl       time.Duration
	resultTTL time.Duration
	locks     *KeyedMutex
	now       func() time.Time
}

// StoreConfig holds the lifetimes of stored batches. TTL applies while the
// batch is open, ResultTTL once it is finished.
type StoreConfig struct {
	TTL       time.Duration
	ResultTTL time.Duration
}

// NewStore returns a store for batches of kind. locks may be shared between
// stores; ids are unique across kinds.
func NewStore[S any](cache Cache, kind Kind, cfg StoreConfig, locks *KeyedMutex) *Store[S] {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = cfg.TTL
	}
	return &Store[S]{
		cache:     cache,
		kind:      kind,
		ttl:       cfg.TTL,
		resultTTL: cfg.ResultTTL,
		locks:     locks,
		now:       time.Now,
	}
}

// Lock serializes requests on one batch id. It gives up when ctx is done.
func (s *Store[S]) Lock(ctx context.Context, id string) (func(), error) {
	return s.locks.Lock(ctx, id)
}

// Load reads a batch. It fails with ErrBatchNotFound when the id is unknown
// or expired and with ErrKindMismatch when it belongs to another kind.
func (s *Store[S]) Load(ctx context.Context, id string) (*Batch[S], error) {
	raw, ok, err := s.cache.Get(ctx, cacheKey(id))
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	var b Batch[S]
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decoding batch %s: %w", id, err)
	}
	if b.Kind != s.kind {
		return nil, fmt.Errorf("%w: %s is a %s batch", ErrKindMismatch, id, b.Kind)
	}
	return &b, nil
}

// LoadOrCreate reads a batch or initializes a new one with state init.
// New batches are not persisted until Save.
func (s *Store[S]) LoadOrCreate(ctx context.Context, id string, init func() S) (*Batch[S], bool, error) {
	b, err := s.Load(ctx, id)
	if err == nil {
		return b, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}
	now := s.now().UTC()
	return &Batch[S]{
		Header: Header{ID: id, Kind: s.kind, Status: StatusInitiated, CreatedAt: now, UpdatedAt: now},
		State:  init(),
	}, true, nil
}

// Save writes the batch, keeping finished batches for the result TTL.
func (s *Store[S]) Save(ctx context.Context, b *Batch[S]) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding batch %s: %w", b.ID, err)
	}
	ttl := s.ttl
	if b.Status.Finished() {
		ttl = s.resultTTL
	}
	if err := s.cache.Set(ctx, cacheKey(b.ID), raw, ttl); err != nil {
		return fmt.Errorf("writing batch %s: %w", b.ID, err)
	}
	return nil
}

// Peek reads the header of any batch, whatever its kind.
func Peek(ctx context.Context, cache Cache, id string) (Header, error) {
	raw, ok, err := cache.Get(ctx, cacheKey(id))
	if err != nil {
		return Header{}, fmt.Errorf("reading batch %s: %w", id, err)
	}
	if !ok {
		return Header{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return Header{}, fmt.Errorf("decoding batch %s: %w", id, err)
	}
	return h, nil
}
