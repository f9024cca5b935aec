package vaultbind

import (
	"fmt"
	"sort"
)

// ProviderMux allows you to dynamically look up a registered back-end by name.
// All back-ends provided in this module can be registered, and additional
// back-ends can be registered given an implementation of Provider.
type ProviderMux[V any] map[string]ClientFactory[V]

// NewMux returns a ProviderMux ready for use.
func NewMux[V any]() ProviderMux[V] {
	return ProviderMux[V](map[string]ClientFactory[V]{})
}

// Add registers the given provider under each of its names. If any of its
// names are already registered, they will be overridden.
func (m ProviderMux[V]) Add(p Provider[V]) {
	for _, name := range p.Names() {
		m[name] = p.NewStore
	}
}

// Lookup returns the client factory registered under name.
func (m ProviderMux[V]) Lookup(name string) (ClientFactory[V], error) {
	f, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("no vault provider registered for %q", name)
	}

	return f, nil
}

// Names returns the sorted names of all registered providers.
func (m ProviderMux[V]) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Provider provides vault clients for a back-end known by a set of names.
type Provider[V any] interface {
	// Names returns the names this back-end can be looked up by
	Names() []string

	// NewStore returns a client for the named vault resource
	NewStore(resourceName string) (Store[V], error)
}

// ProviderFunc -
func ProviderFunc[V any](f ClientFactory[V], names ...string) Provider[V] {
	return provider[V]{f, names}
}

type provider[V any] struct {
	newFunc ClientFactory[V]
	names   []string
}

func (p provider[V]) Names() []string {
	return p.names
}

func (p provider[V]) NewStore(resourceName string) (Store[V], error) {
	return p.newFunc(resourceName)
}
