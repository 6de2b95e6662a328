// internal/client/helpers_test.go
package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"stocksync/internal/api"
	"stocksync/internal/inventory"
	"stocksync/internal/notify"
)

type updateCall struct {
	Name     string
	Quantity int
}

type createCall struct {
	Name     string
	Quantity string
	Unit     string
}

// fakeServer is a scriptable stand-in for the server of record.
type fakeServer struct {
	mu        sync.Mutex
	fetchResp api.InventoryResponse
	fetchErr  error
	updateErr error
	createErr error

	fetches int
	updates []updateCall
	creates []createCall

	// closed-over notification channel for async paths, optional
	updated chan updateCall
	fetched chan struct{}

	// runs inside UpdateQuantity before it returns, optional; lets tests
	// interleave a poll with an in-flight mutation
	updateHook func()
}

func (f *fakeServer) FetchInventory(ctx context.Context) (*api.InventoryResponse, error) {
	f.mu.Lock()
	f.fetches++
	resp := f.fetchResp
	err := f.fetchErr
	ch := f.fetched
	f.mu.Unlock()

	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	if err != nil {
		return nil, err
	}
	// Copy so tests can mutate fetchResp between polls.
	out := resp
	out.Inventory = append([]inventory.Item(nil), resp.Inventory...)
	out.LowStockItems = append([]string(nil), resp.LowStockItems...)
	return &out, nil
}

func (f *fakeServer) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	f.mu.Lock()
	hook := f.updateHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	err := f.updateErr
	call := updateCall{Name: name, Quantity: quantity}
	if err == nil {
		f.updates = append(f.updates, call)
	}
	ch := f.updated
	f.mu.Unlock()

	if err == nil && ch != nil {
		ch <- call
	}
	return err
}

func (f *fakeServer) CreateItem(ctx context.Context, name, quantity, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.creates = append(f.creates, createCall{Name: name, Quantity: quantity, Unit: unit})
	return nil
}

func (f *fakeServer) FetchReport(ctx context.Context) (string, []byte, error) {
	return "relatorio_estoque.pdf", []byte("%PDF-fake"), nil
}

func (f *fakeServer) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeServer) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// recordingView captures everything the core publishes.
type recordingView struct {
	mu     sync.Mutex
	snaps  []inventory.Snapshot
	alerts []*notify.Alert
	states []EditState
}

func (v *recordingView) RenderInventory(snap inventory.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.snaps = append(v.snaps, snap)
}

func (v *recordingView) RenderAlert(alert *notify.Alert) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, alert)
}

func (v *recordingView) RenderEditSession(state EditState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, state)
}

func (v *recordingView) lastAlert() *notify.Alert {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.alerts) == 0 {
		return nil
	}
	return v.alerts[len(v.alerts)-1]
}

// newTestCore wires a core against the fake with a seeded snapshot.
func newTestCore(t *testing.T, srv *fakeServer, items []inventory.Item, admin bool) (*Core, *recordingView) {
	t.Helper()

	srv.mu.Lock()
	srv.fetchResp = api.InventoryResponse{Inventory: items, IsAdmin: admin}
	srv.mu.Unlock()

	view := &recordingView{}
	core := NewCore(srv, view, time.Second)
	if err := core.SyncOnce(context.Background()); err != nil {
		t.Fatalf("seeding sync failed: %v", err)
	}
	return core, view
}

// waitForUpdate blocks until the fake sees an update or the test times out.
func waitForUpdate(t *testing.T, ch chan updateCall) updateCall {
	t.Helper()
	select {
	case call := <-ch:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an update request")
		return updateCall{}
	}
}
