package vaultbind

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingResourceName is returned (wrapped in a *ValidationError) when
	// a vault resource name is blank.
	ErrMissingResourceName = errors.New("vault resource name must not be blank")

	// ErrMissingItemID is returned (wrapped in a *ValidationError) when an
	// item id is blank.
	ErrMissingItemID = errors.New("item id must not be blank")

	// ErrInvalidItemID is returned (wrapped in a *ValidationError) when a
	// back-end can't address an item id, e.g. one that leaves its mount.
	ErrInvalidItemID = errors.New("item id is not valid for this vault")

	// ErrReadOnly is returned when writing an item of a read-only kind.
	ErrReadOnly = errors.New("item kind is read-only")

	// ErrCancelled is returned when the caller's context is done before a
	// remote call completes.
	ErrCancelled = errors.New("operation cancelled")

	// ErrAuth matches any *AuthError.
	ErrAuth = errors.New("credential acquisition failed")

	ErrNotFound         = errors.New("item not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("vault unavailable")
)

// ValidationError reports a blank or otherwise unusable input. It is always
// returned before any network activity.
type ValidationError struct {
	// Field names the offending input (e.g. "resourceName")
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func missingResourceName(field string) error {
	return &ValidationError{Field: field, Err: ErrMissingResourceName}
}

func missingItemID(field string) error {
	return &ValidationError{Field: field, Err: ErrMissingItemID}
}

// ValidateResourceName returns a *ValidationError when name is blank.
func ValidateResourceName(name string) error {
	if isBlank(name) {
		return missingResourceName("resourceName")
	}

	return nil
}

// ValidateItemID returns a *ValidationError when id is blank.
func ValidateItemID(id string) error {
	if isBlank(id) {
		return missingItemID("itemID")
	}

	return nil
}

// AuthError reports a failure to acquire a credential. Once a shared
// credential has failed to build, every later client construction fails with
// the same error.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// RemoteKind classifies a failed remote call.
type RemoteKind int

const (
	RemoteOther RemoteKind = iota
	RemoteNotFound
	RemotePermissionDenied
	RemoteUnavailable
)

func (k RemoteKind) String() string {
	switch k {
	case RemoteNotFound:
		return "not found"
	case RemotePermissionDenied:
		return "permission denied"
	case RemoteUnavailable:
		return "unavailable"
	default:
		return "remote error"
	}
}

func (k RemoteKind) sentinel() error {
	switch k {
	case RemoteNotFound:
		return ErrNotFound
	case RemotePermissionDenied:
		return ErrPermissionDenied
	case RemoteUnavailable:
		return ErrUnavailable
	default:
		return nil
	}
}

// RemoteError is a failed call to the vault service. The underlying SDK error
// is kept as the cause, but callers should classify with errors.Is against
// ErrNotFound, ErrPermissionDenied and ErrUnavailable, or inspect Kind.
type RemoteError struct {
	Err      error
	Op       string
	Resource string
	Item     string
	Kind     RemoteKind
}

// NewRemoteError wraps err as a *RemoteError of the given kind. Back-ends use
// this to convert SDK errors without leaking SDK types as the top-level error.
func NewRemoteError(kind RemoteKind, err error) *RemoteError {
	return &RemoteError{Kind: kind, Err: err}
}

func (e *RemoteError) Error() string {
	target := e.Resource
	if e.Item != "" {
		target += "/" + e.Item
	}

	if e.Op == "" && target == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s %s: %s: %v", e.Op, target, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	s := e.Kind.sentinel()

	return s != nil && target == s
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// classify maps the error returned by a Store into the package's error
// taxonomy, annotating remote errors with the operation and target.
func classify(ctx context.Context, op, resource, item string, err error) error {
	if ctx.Err() != nil {
		return cancelled(ctx.Err())
	}

	if errors.Is(err, ErrCancelled) {
		return err
	}

	if isCancellation(err) {
		return cancelled(err)
	}

	if errors.Is(err, ErrAuth) || errors.Is(err, ErrReadOnly) {
		return err
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}

	var rerr *RemoteError
	if !errors.As(err, &rerr) {
		rerr = NewRemoteError(RemoteOther, err)
	}

	// copy so we don't mutate an error a back-end may share
	out := *rerr
	if err != rerr {
		out.Err = err
	}

	if out.Op == "" {
		out.Op = op
	}

	if out.Resource == "" {
		out.Resource = resource
	}

	if out.Item == "" {
		out.Item = item
	}

	return &out
}
