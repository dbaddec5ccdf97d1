// Package memory holds map-backed implementations of the storage ports. They behave like
// the real stores and accept injected failures, which is what the service tests need.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/infrastructure/blobstore"
)

type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// failure injection, nil means success
	PutErr    func(key string) error
	DeleteErr func(key string) error
}

var _ ports.BlobStore = (*BlobStore)(nil)

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

func (s *BlobStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.PutErr != nil {
		if err := s.PutErr(key); err != nil {
			return err
		}
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.blobs[key]; dup {
		return fmt.Errorf("%w: %s", blobstore.ErrKeyExists, key)
	}
	s.blobs[key] = b

	return nil
}

func (s *BlobStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[key]
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *BlobStore) Delete(_ context.Context, key string) error {
	if s.DeleteErr != nil {
		if err := s.DeleteErr(key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)

	return nil
}

func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.blobs[key]
	return ok, nil
}

// Keys returns every stored key, sorted.
func (s *BlobStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
