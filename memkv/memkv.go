// Package memkv provides in-memory vaults for local development and testing.
// Nothing is persisted, and all vaults are lost when the process exits.
package memkv

import (
	"context"
	"fmt"
	"sort"
	"sync"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
)

// Vaults is a set of in-memory vaults holding secrets, keyed by resource name.
// It is safe for concurrent use.
type Vaults struct {
	// secrets holds secret values keyed by resource name, then item id
	secrets map[string]map[string]string
	mu      sync.RWMutex
}

// New creates an empty set of vaults, optionally seeded with secrets keyed by
// resource name, then item id.
func New(seed ...map[string]map[string]string) *Vaults {
	v := &Vaults{secrets: map[string]map[string]string{}}

	for _, s := range seed {
		for resource, items := range s {
			for id, value := range items {
				v.Put(resource, id, value)
			}
		}
	}

	return v
}

// Put stores a secret without a context, for seeding.
func (v *Vaults) Put(resourceName, id, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.secrets[resourceName] == nil {
		v.secrets[resourceName] = map[string]string{}
	}

	v.secrets[resourceName][id] = value
}

// IDs returns the sorted ids of every secret in the named vault.
func (v *Vaults) IDs(resourceName string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := make([]string, 0, len(v.secrets[resourceName]))
	for id := range v.secrets[resourceName] {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Secrets returns a client factory for secrets in these vaults. A vault
// springs into existence when its client is created.
func (v *Vaults) Secrets() vaultbind.ClientFactory[string] {
	return func(resourceName string) (vaultbind.Store[string], error) {
		return &store{vaults: v, resourceName: resourceName}, nil
	}
}

// Provider returns a provider for registering with a [vaultbind.ProviderMux],
// known as "memory".
func (v *Vaults) Provider() vaultbind.Provider[string] {
	return vaultbind.ProviderFunc(v.Secrets(), "memory")
}

type store struct {
	vaults       *Vaults
	resourceName string
}

var _ vaultbind.Store[string] = (*store)(nil)

func (s *store) Get(ctx context.Context, id string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	s.vaults.mu.RLock()
	defer s.vaults.mu.RUnlock()

	value, ok := s.vaults.secrets[s.resourceName][id]
	if !ok {
		return "", vaultbind.NewRemoteError(vaultbind.RemoteNotFound,
			fmt.Errorf("secret not found: %s/%s", s.resourceName, id))
	}

	return value, nil
}

func (s *store) Set(ctx context.Context, id, value string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.vaults.Put(s.resourceName, id, value)

	return nil
}
