// internal/client/core.go
package client

import (
	"context"
	"sync"
	"time"

	"stocksync/internal/api"
	"stocksync/internal/inventory"
	"stocksync/internal/logger"
	"stocksync/internal/metrics"
	"stocksync/internal/notify"
)

// Server is the slice of the API client the core needs. The real
// implementation is *api.Client; tests substitute their own.
type Server interface {
	FetchInventory(ctx context.Context) (*api.InventoryResponse, error)
	UpdateQuantity(ctx context.Context, name string, quantity int) error
	CreateItem(ctx context.Context, name, quantity, unit string) error
	FetchReport(ctx context.Context) (string, []byte, error)
}

// View consumes what the core publishes: the snapshot, the zero-or-one
// low-stock alert, and the edit session state. All three are re-published
// after every mutation or poll.
type View interface {
	RenderInventory(snap inventory.Snapshot)
	RenderAlert(alert *notify.Alert)
	RenderEditSession(state EditState)
}

// Core keeps the local snapshot consistent with the server of record
// under the two competing update paths: the periodic full-refresh poll
// and user-issued point mutations.
type Core struct {
	server Server
	store  *inventory.Store
	view   View

	pollInterval time.Duration

	sessionMu sync.Mutex
	session   EditState

	alertMu sync.Mutex
	alert   *notify.Alert
}

func NewCore(server Server, view View, pollInterval time.Duration) *Core {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Core{
		server:       server,
		store:        inventory.NewStore(),
		view:         view,
		pollInterval: pollInterval,
	}
}

// Snapshot exposes a read-only projection of the current state.
func (c *Core) Snapshot() inventory.Snapshot {
	return c.store.Snapshot()
}

// Alert returns the currently published low-stock alert, nil when clear.
func (c *Core) Alert() *notify.Alert {
	c.alertMu.Lock()
	defer c.alertMu.Unlock()
	return c.alert
}

// RunSync polls once immediately, then on every tick until the context is
// cancelled. Every poll, the startup one included, runs in its own
// goroutine: the ticker never waits for an in-flight poll, so a hung
// fetch cannot stall the schedule and the next tick always fires. The
// flip side is that overlapping polls are possible and a response that
// was in flight before a confirmed mutation can overwrite it until the
// next poll catches up. That staleness window is inherent to the
// unversioned wholesale replace and is deliberately kept.
func (c *Core) RunSync(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	poll := func() {
		if err := c.SyncOnce(ctx); err != nil {
			logger.LogError("Inventory sync failed: %v", err)
		}
	}
	go poll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go poll()
		}
	}
}

// SyncOnce fetches the full snapshot and replaces the local one
// wholesale. Any failure leaves the existing snapshot untouched; the next
// scheduled tick is the retry mechanism.
func (c *Core) SyncOnce(ctx context.Context) error {
	resp, err := c.server.FetchInventory(ctx)
	if err != nil {
		metrics.PollsTotal.WithLabelValues("failure").Inc()
		return err
	}

	if err := c.store.Replace(resp.Inventory, resp.IsAdmin); err != nil {
		metrics.PollsTotal.WithLabelValues("malformed").Inc()
		return err
	}
	metrics.PollsTotal.WithLabelValues("success").Inc()

	// The poll path trusts the server's own low-stock derivation; an
	// unprivileged snapshot clears any alert on screen.
	if resp.IsAdmin {
		c.setAlert(notify.FromNames(resp.LowStockItems))
	} else {
		c.setAlert(nil)
	}

	c.publish()
	return nil
}

// DownloadReport triggers the opaque report download. The blob is handed
// back as-is; nothing about it feeds the snapshot.
func (c *Core) DownloadReport(ctx context.Context) (string, []byte, error) {
	return c.server.FetchReport(ctx)
}

func (c *Core) setAlert(alert *notify.Alert) {
	c.alertMu.Lock()
	c.alert = alert
	c.alertMu.Unlock()
	if alert == nil {
		metrics.LowStockItems.Set(0)
	} else {
		metrics.LowStockItems.Set(float64(len(alert.Items)))
	}
}

// publish pushes snapshot, alert, and edit session to the view.
func (c *Core) publish() {
	if c.view == nil {
		return
	}
	c.view.RenderInventory(c.store.Snapshot())
	c.view.RenderAlert(c.Alert())
	c.view.RenderEditSession(c.EditState())
}
