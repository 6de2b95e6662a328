// internal/client/create.go
package client

import (
	"context"
	"errors"
	"strings"

	"stocksync/internal/logger"
)

// ErrMissingFields is the local rejection for a creation attempt with any
// empty field. No request is sent.
var ErrMissingFields = errors.New("preencha todos os campos")

// CreateItem asks the server to add a new item. The quantity travels as
// the raw string the operator typed; the server owns parsing, duplicate
// rejection, and every other normalization. On success the local snapshot
// is not touched directly: a full resync makes the server's version
// authoritative.
func (c *Core) CreateItem(ctx context.Context, name, quantity, unit string) error {
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	unit = strings.TrimSpace(unit)

	if name == "" || quantity == "" || unit == "" {
		return ErrMissingFields
	}

	if err := c.server.CreateItem(ctx, name, quantity, unit); err != nil {
		return err
	}

	logger.LogInfo("Item %q created, forcing full resync", name)
	if err := c.SyncOnce(ctx); err != nil {
		// The creation itself succeeded; the regular poll will pick the
		// new item up.
		logger.LogError("Post-creation resync failed: %v", err)
	}
	return nil
}
