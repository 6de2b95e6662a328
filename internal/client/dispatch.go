// internal/client/dispatch.go
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stocksync/internal/inventory"
	"stocksync/internal/logger"
	"stocksync/internal/metrics"
	"stocksync/internal/notify"
)

// ErrNegativeQuantity is returned when a direct set asks for a value
// below zero. Rejected locally; no request is sent.
var ErrNegativeQuantity = errors.New("quantidade não pode ser negativa")

// ErrUnknownItem is returned when a command names an item absent from the
// local snapshot.
var ErrUnknownItem = errors.New("item não encontrado")

// Increment sends a confirmed set to current+1.
func (c *Core) Increment(ctx context.Context, name string) error {
	item, ok := c.store.Item(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	return c.dispatchSet(ctx, name, item.Quantity+1)
}

// Decrement sends a confirmed set to current-1, clamped at zero before
// the request is issued.
func (c *Core) Decrement(ctx context.Context, name string) error {
	item, ok := c.store.Item(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	target := item.Quantity - 1
	if target < 0 {
		target = 0
	}
	return c.dispatchSet(ctx, name, target)
}

// SetAbsolute sends a confirmed set to an exact value. Negative input is
// rejected before any network round-trip.
func (c *Core) SetAbsolute(ctx context.Context, name string, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if _, ok := c.store.Item(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	return c.dispatchSet(ctx, name, quantity)
}

// dispatchSet is confirm-then-apply: the local snapshot changes only on
// acknowledged success, never speculatively. Two in-flight commands for
// the same item race freely; whichever acknowledgment lands last wins.
func (c *Core) dispatchSet(ctx context.Context, name string, target int) error {
	cmdID := uuid.NewString()
	logger.LogInfo("Dispatching quantity command %s: %s -> %d", cmdID, name, target)

	if err := c.server.UpdateQuantity(ctx, name, target); err != nil {
		metrics.MutationsTotal.WithLabelValues("failed").Inc()
		logger.LogError("Quantity command %s not confirmed: %v", cmdID, err)
		return err
	}

	if !c.store.ApplyConfirmedQuantity(name, target) {
		// Confirmed against an item the local snapshot no longer has:
		// schedule a corrective full resync instead of guessing.
		metrics.MutationsTotal.WithLabelValues("stale").Inc()
		go func() {
			if err := c.SyncOnce(ctx); err != nil {
				logger.LogError("Corrective resync failed: %v", err)
			}
		}()
		return nil
	}
	metrics.MutationsTotal.WithLabelValues("confirmed").Inc()

	// Alert is only re-derived when the confirmed value can change it;
	// otherwise the one on screen stands until the next poll.
	if c.store.IsPrivileged() && target <= inventory.LowStockThreshold {
		c.setAlert(notify.Derive(c.store.Snapshot()))
	}

	c.publish()
	return nil
}
