// internal/client/editsession.go
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"stocksync/internal/logger"
)

// EditState is the modal's state machine: Closed, or Open with a target
// item and the uncommitted pending value.
type EditState struct {
	Open    bool
	Target  string
	Pending string
}

// ErrInvalidPending is returned when a commit is attempted with a pending
// value that does not parse as a non-negative integer. The session stays
// open; nothing is sent.
var ErrInvalidPending = errors.New("quantidade inválida")

// ErrNoEditSession is returned for edits against a closed session.
var ErrNoEditSession = errors.New("no edit session open")

// OpenEdit transitions Closed -> Open, seeding the pending value from the
// item's current confirmed quantity.
func (c *Core) OpenEdit(name string) error {
	item, ok := c.store.Item(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}

	c.sessionMu.Lock()
	c.session = EditState{Open: true, Target: name, Pending: strconv.Itoa(item.Quantity)}
	c.sessionMu.Unlock()

	c.publish()
	return nil
}

// SetPending stages a new value in the open session. No validation beyond
// requiring the session to be open; the value is checked at commit.
func (c *Core) SetPending(value string) error {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	if !c.session.Open {
		return ErrNoEditSession
	}
	c.session.Pending = value
	return nil
}

// CommitEdit validates the pending value and, when it parses as an
// integer >= 0, closes the session immediately and delegates to the
// dispatcher. The close does not wait for the request's outcome. An
// invalid pending value keeps the session open and sends nothing.
func (c *Core) CommitEdit(ctx context.Context) error {
	c.sessionMu.Lock()
	if !c.session.Open {
		c.sessionMu.Unlock()
		return ErrNoEditSession
	}

	target := c.session.Target
	quantity, err := strconv.Atoi(c.session.Pending)
	if err != nil || quantity < 0 {
		c.sessionMu.Unlock()
		return ErrInvalidPending
	}

	c.session = EditState{}
	c.sessionMu.Unlock()

	go func() {
		if err := c.SetAbsolute(ctx, target, quantity); err != nil {
			logger.LogError("Committed edit for %s not applied: %v", target, err)
		}
	}()

	c.publish()
	return nil
}

// CancelEdit discards the pending value without side effects. The view
// calls it for the explicit cancel and for a dismissal gesture on the
// modal backdrop.
func (c *Core) CancelEdit() {
	c.sessionMu.Lock()
	c.session = EditState{}
	c.sessionMu.Unlock()

	c.publish()
}

// EditState returns the current session state.
func (c *Core) EditState() EditState {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.session
}
