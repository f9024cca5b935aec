package binding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/sirupsen/logrus"
)

// Collector buffers values written to an output binding, and writes them to
// the vault when flushed.
//
// Pending values are written in the order they were added, so the last one
// added wins. Writes are not transactional: when one fails the others are
// still attempted, and earlier successful writes are not rolled back.
type Collector[V any] struct {
	accessor *vaultbind.Accessor[V]
	log      logrus.FieldLogger
	ref      Reference
	pending  []V
	mu       sync.Mutex
}

// Reference returns the collector's target item.
func (c *Collector[V]) Reference() Reference {
	return c.ref
}

// Add buffers value for the next Flush.
func (c *Collector[V]) Add(ctx context.Context, value V) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", vaultbind.ErrCancelled, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, value)

	return nil
}

// Pending returns the number of buffered values.
func (c *Collector[V]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pending)
}

// Flush writes all buffered values, in order. The buffer is emptied whether or
// not the writes succeed, and failed writes are not retried. The errors of all
// failed writes are joined.
func (c *Collector[V]) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	var errs []error

	for _, v := range pending {
		err := c.accessor.SetItem(ctx, c.ref.ResourceName, c.ref.ItemID, v)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		c.log.WithField("failed", len(errs)).WithField("pending", len(pending)).
			Debug("vault write failed")
	}

	return errors.Join(errs...)
}
