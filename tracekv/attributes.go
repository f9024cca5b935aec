package tracekv

import (
	"context"
	"errors"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"go.opentelemetry.io/otel/attribute"
)

const (
	kindKey      = attribute.Key("vault.kind")
	resourceKey  = attribute.Key("vault.resource")
	itemKey      = attribute.Key("vault.item")
	opKey        = attribute.Key("vault.op")
	errorKindKey = attribute.Key("vault.error_kind")
)

// The kind of item being operated on.
//
// Type: string
// Required: Yes
// Examples: "secret", "key"
func Kind(kind vaultbind.ItemKind) attribute.KeyValue {
	return kindKey.String(kind.String())
}

// The name of the vault resource being operated on.
//
// Type: string
// Required: Yes
// Examples: "my-kv"
func Resource(name string) attribute.KeyValue {
	return resourceKey.String(name)
}

// The id of the item being operated on. Never the item's value.
//
// Type: string
// Required: Yes
// Examples: "db-password"
func Item(id string) attribute.KeyValue {
	return itemKey.String(id)
}

// The operation performed.
//
// Type: string
// Required: Yes
// Examples: "get", "set"
func Op(op vaultbind.Operation) attribute.KeyValue {
	return opKey.String(op.String())
}

// The class of a failed operation's error.
//
// Type: string
// Required: No
// Examples: "not_found", "permission_denied", "cancelled"
func ErrorKind(err error) attribute.KeyValue {
	return errorKindKey.String(errorKind(err))
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, vaultbind.ErrCancelled),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, vaultbind.ErrAuth):
		return "auth"
	case errors.Is(err, vaultbind.ErrReadOnly):
		return "read_only"
	case errors.Is(err, vaultbind.ErrNotFound):
		return "not_found"
	case errors.Is(err, vaultbind.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, vaultbind.ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
