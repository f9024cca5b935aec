package binding

import (
	"context"
	"io"
	"sync"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/sirupsen/logrus"
)

// Binder validates binding configurations and performs their reads and
// writes through an Accessor. It is safe for concurrent use.
type Binder[V any] struct {
	accessor *vaultbind.Accessor[V]
	settings Settings
	log      logrus.FieldLogger

	validated map[Config]validation
	mu        sync.Mutex
}

type validation struct {
	err error
	ref Reference
}

// Option configures a Binder
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// NewBinder returns a Binder for the accessor's kind of item, resolving
// settings with the given Settings.
func NewBinder[V any](accessor *vaultbind.Accessor[V], settings Settings, opts ...Option) *Binder[V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}

	return &Binder[V]{
		accessor:  accessor,
		settings:  settings,
		log:       o.log.WithField("kind", accessor.Kind().String()),
		validated: map[Config]validation{},
	}
}

// Validate resolves and checks cfg, and prepares the vault client it needs.
// This happens once per distinct Config, and the result (reference or error)
// is returned from then on. Changes to settings after the first validation are
// not seen.
func (b *Binder[V]) Validate(cfg Config) (Reference, error) {
	cfg = cfg.withDefaults()

	b.mu.Lock()
	defer b.mu.Unlock()

	if v, ok := b.validated[cfg]; ok {
		return v.ref, v.err
	}

	ref, err := b.validate(cfg)
	b.validated[cfg] = validation{ref: ref, err: err}

	log := b.log.WithFields(logrus.Fields{
		"resourceNameSetting": cfg.ResourceNameSetting,
		"itemIdSetting":       cfg.ItemIDSetting,
		"op":                  cfg.Operation.String(),
	})

	if err != nil {
		log.WithError(err).Debug("binding validation failed")
	} else {
		log.WithField("resource", ref.ResourceName).WithField("item", ref.ItemID).
			Debug("binding validated")
	}

	return ref, err
}

func (b *Binder[V]) validate(cfg Config) (Reference, error) {
	if isBlank(cfg.ResourceNameSetting) {
		return Reference{}, &vaultbind.ValidationError{
			Field: "resourceNameSetting", Err: vaultbind.ErrMissingResourceName,
		}
	}

	if isBlank(cfg.ItemIDSetting) {
		return Reference{}, &vaultbind.ValidationError{
			Field: "itemIdSetting", Err: vaultbind.ErrMissingItemID,
		}
	}

	if cfg.Operation == vaultbind.OpSet && !b.accessor.Kind().Writable() {
		return Reference{}, vaultbind.ErrReadOnly
	}

	ref := Reference{}
	ref.ResourceName, _ = b.settings.Lookup(cfg.ResourceNameSetting)
	ref.ItemID, _ = b.settings.Lookup(cfg.ItemIDSetting)

	if isBlank(ref.ResourceName) {
		return Reference{}, &vaultbind.ValidationError{
			Field: cfg.ResourceNameSetting, Err: vaultbind.ErrMissingResourceName,
		}
	}

	if isBlank(ref.ItemID) {
		return Reference{}, &vaultbind.ValidationError{
			Field: cfg.ItemIDSetting, Err: vaultbind.ErrMissingItemID,
		}
	}

	if _, err := b.accessor.Cache().GetOrCreateClient(ref.ResourceName); err != nil {
		return Reference{}, err
	}

	return ref, nil
}

// Input reads the item bound by cfg.
func (b *Binder[V]) Input(ctx context.Context, cfg Config) (V, error) {
	var zero V

	cfg.Operation = vaultbind.OpGet

	ref, err := b.Validate(cfg)
	if err != nil {
		return zero, err
	}

	v, err := b.accessor.GetItem(ctx, ref.ResourceName, ref.ItemID)
	if err != nil {
		b.log.WithField("resource", ref.ResourceName).WithField("item", ref.ItemID).
			WithError(err).Debug("vault read failed")

		return zero, err
	}

	return v, nil
}

// Output returns a Collector for writes to the item bound by cfg. Only
// writable kinds of item can be bound for output.
func (b *Binder[V]) Output(cfg Config) (*Collector[V], error) {
	cfg.Operation = vaultbind.OpSet

	ref, err := b.Validate(cfg)
	if err != nil {
		return nil, err
	}

	return &Collector[V]{
		accessor: b.accessor,
		ref:      ref,
		log:      b.log.WithField("resource", ref.ResourceName).WithField("item", ref.ItemID),
	}, nil
}
