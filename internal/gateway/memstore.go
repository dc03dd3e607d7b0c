package gateway

import (
	"sort"
	"sync"

	dwerrors "github.com/dailywalk/dailywalk/core/errors"
)

// MemStore is an in-memory Store used by tests and as the default when no
// cache directory is configured.
type MemStore struct {
	mu      sync.RWMutex
	buckets map[string]*memBucket
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{buckets: make(map[string]*memBucket)}
}

// Open returns the bucket named version, creating it if needed.
func (s *MemStore) Open(version string) (Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[version]
	if !ok {
		b = &memBucket{entries: make(map[string]Entry)}
		s.buckets[version] = b
	}
	return b, nil
}

// List returns all bucket names in sorted order.
func (s *MemStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named bucket. Deleting an absent bucket is a no-op.
func (s *MemStore) Delete(version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, version)
	return nil
}

type memBucket struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func (b *memBucket) Get(key string) (Entry, error) {
	b.mu.RLock()
	e, ok := b.entries[key]
	b.mu.RUnlock()
	if !ok {
		return Entry{}, dwerrors.NewNotFound("cache entry", key)
	}
	if err := e.verify(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (b *memBucket) Put(e Entry) error {
	e.seal()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[e.Key] = e
	return nil
}

func (b *memBucket) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
