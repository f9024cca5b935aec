package vaultbind

import (
	"context"
	"fmt"
	"strings"
)

// ItemKind is the kind of item held in a vault.
type ItemKind int

const (
	// KindSecret items are opaque strings, and can be read and written.
	KindSecret ItemKind = iota
	// KindKey items are cryptographic keys. Only the public key material is
	// ever returned, and keys are read-only.
	KindKey
)

func (k ItemKind) String() string {
	switch k {
	case KindSecret:
		return "secret"
	case KindKey:
		return "key"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// Writable reports whether items of this kind may be set.
func (k ItemKind) Writable() bool {
	return k == KindSecret
}

// Operation is the operation a binding performs on an item.
type Operation int

const (
	OpGet Operation = iota
	OpSet
)

func (o Operation) String() string {
	switch o {
	case OpGet:
		return "get"
	case OpSet:
		return "set"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Store is a client handle bound to exactly one vault instance. Values are
// passed through verbatim.
//
// Implementations must be safe for concurrent use, must honour context
// cancellation, and must never log item values.
type Store[V any] interface {
	// Get retrieves the current value of the item with the given id.
	Get(ctx context.Context, id string) (V, error)

	// Set writes a new value for the item with the given id. Stores for
	// read-only kinds return ErrReadOnly.
	Set(ctx context.Context, id string, value V) error
}

// ClientFactory builds a Store for the named vault resource. Factories must not
// contact the network - errors surface only when the Store is used - but may
// fail when a shared credential can't be built.
type ClientFactory[V any] func(resourceName string) (Store[V], error)

// VaultURL synthesizes the endpoint for the named vault resource in the given
// domain, e.g. VaultURL("my-kv", "vault.azure.net") returns
// "https://my-kv.vault.azure.net".
func VaultURL(resourceName, domain string) string {
	return "https://" + resourceName + "." + strings.TrimPrefix(domain, ".")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
