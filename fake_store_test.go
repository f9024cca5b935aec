package vaultbind

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeStore struct {
	items   map[string]string
	getErr  error
	setErr  error
	started chan struct{}
	block   chan struct{}
	calls   atomic.Int64
	mu      sync.Mutex
}

var _ Store[string] = (*fakeStore)(nil)

func (s *fakeStore) Get(ctx context.Context, id string) (string, error) {
	s.calls.Add(1)

	if s.block != nil {
		if s.started != nil {
			close(s.started)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-s.block:
		}
	}

	if s.getErr != nil {
		return "", s.getErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[id]
	if !ok {
		return "", NewRemoteError(RemoteNotFound, ErrNotFound)
	}

	return v, nil
}

func (s *fakeStore) Set(_ context.Context, id, value string) error {
	s.calls.Add(1)

	if s.setErr != nil {
		return s.setErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items == nil {
		s.items = map[string]string{}
	}

	s.items[id] = value

	return nil
}

// fakeBackend hands out one fakeStore per resource, counting constructions
type fakeBackend struct {
	stores     map[string]*fakeStore
	newErr     error
	constructs atomic.Int64
	mu         sync.Mutex
}

func newFakeBackend(t *testing.T, stores map[string]*fakeStore) *fakeBackend {
	t.Helper()

	if stores == nil {
		stores = map[string]*fakeStore{}
	}

	return &fakeBackend{stores: stores}
}

func (b *fakeBackend) factory(resourceName string) (Store[string], error) {
	b.constructs.Add(1)

	if b.newErr != nil {
		return nil, b.newErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.stores[resourceName]
	if !ok {
		s = &fakeStore{items: map[string]string{}}
		b.stores[resourceName] = s
	}

	// wrap so every construction yields a distinct handle
	return &storeHandle{fakeStore: s}, nil
}

// storeHandle is a distinct handle around a shared fakeStore
type storeHandle struct {
	*fakeStore
}

func (b *fakeBackend) remoteCalls() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := int64(0)
	for _, s := range b.stores {
		n += s.calls.Load()
	}

	return n
}
