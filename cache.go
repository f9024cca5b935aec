package vaultbind

import (
	"sort"
	"sync"
)

// ClientCache maps vault resource names to lazily-constructed clients. At most
// one client is ever retained per name, and once present an entry is never
// replaced or removed.
//
// The cache is meant to be constructed once and shared for the life of the
// application. GetOrCreateClient is its only mutating operation.
type ClientCache[V any] struct {
	factory ClientFactory[V]
	clients map[string]Store[V]
	mu      sync.Mutex
}

// NewClientCache returns an empty cache which builds clients with factory.
func NewClientCache[V any](factory ClientFactory[V]) *ClientCache[V] {
	return &ClientCache[V]{
		factory: factory,
		clients: map[string]Store[V]{},
	}
}

// GetOrCreateClient returns the client for resourceName, constructing and
// caching it on first use. It never contacts the network.
//
// Construction happens under the cache's lock, so concurrent callers asking
// for the same new name all receive the one client that was built. If the
// factory fails nothing is cached, and the error is returned.
func (c *ClientCache[V]) GetOrCreateClient(resourceName string) (Store[V], error) {
	if err := ValidateResourceName(resourceName); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[resourceName]; ok {
		return client, nil
	}

	client, err := c.factory(resourceName)
	if err != nil {
		return nil, err
	}

	c.clients[resourceName] = client

	return client, nil
}

// Resources returns the sorted names of all cached clients.
func (c *ClientCache[V]) Resources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.clients))
	for name := range c.clients {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
