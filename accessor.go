package vaultbind

import (
	"context"
)

// Accessor reads and writes items of one kind, resolving clients through a
// shared ClientCache.
//
// Inputs are validated before the cache or the network is touched. Remote
// failures are returned as *RemoteError and are never retried.
type Accessor[V any] struct {
	cache *ClientCache[V]
	kind  ItemKind
}

// NewAccessor returns an Accessor for items of the given kind.
func NewAccessor[V any](kind ItemKind, cache *ClientCache[V]) *Accessor[V] {
	return &Accessor[V]{kind: kind, cache: cache}
}

// Kind returns the kind of item this accessor handles.
func (a *Accessor[V]) Kind() ItemKind {
	return a.kind
}

// Cache returns the underlying client cache.
func (a *Accessor[V]) Cache() *ClientCache[V] {
	return a.cache
}

// GetItem retrieves the value of itemID from the vault named resourceName.
func (a *Accessor[V]) GetItem(ctx context.Context, resourceName, itemID string) (V, error) {
	var zero V

	if err := validate(resourceName, itemID); err != nil {
		return zero, err
	}

	client, err := a.cache.GetOrCreateClient(resourceName)
	if err != nil {
		return zero, err
	}

	if ctx.Err() != nil {
		return zero, cancelled(ctx.Err())
	}

	v, err := client.Get(ctx, itemID)
	if err != nil {
		return zero, classify(ctx, "get", resourceName, itemID, err)
	}

	// a store may have returned a value just as the context was cancelled -
	// don't hand it out in that case
	if ctx.Err() != nil {
		return zero, cancelled(ctx.Err())
	}

	return v, nil
}

// SetItem writes value to itemID in the vault named resourceName. Items of
// read-only kinds fail with ErrReadOnly.
//
// Concurrent writes to the same item are not ordered: the last one applied by
// the vault wins.
func (a *Accessor[V]) SetItem(ctx context.Context, resourceName, itemID string, value V) error {
	if err := validate(resourceName, itemID); err != nil {
		return err
	}

	if !a.kind.Writable() {
		return ErrReadOnly
	}

	client, err := a.cache.GetOrCreateClient(resourceName)
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return cancelled(ctx.Err())
	}

	if err := client.Set(ctx, itemID, value); err != nil {
		return classify(ctx, "set", resourceName, itemID, err)
	}

	return nil
}

func validate(resourceName, itemID string) error {
	if err := ValidateResourceName(resourceName); err != nil {
		return err
	}

	return ValidateItemID(itemID)
}
