// internal/client/create_test.go
package client

import (
	"context"
	"errors"
	"testing"

	"stocksync/internal/api"
	"stocksync/internal/inventory"
)

func TestCreateItemRejectsEmptyFieldsLocally(t *testing.T) {
	srv := &fakeServer{}
	core, _ := newTestCore(t, srv, nil, true)
	before := srv.fetchCount()

	cases := []struct{ name, quantity, unit string }{
		{"", "10", "kg"},
		{"Azeitona", "", "kg"},
		{"Azeitona", "10", ""},
		{"   ", "10", "kg"},
		{"Azeitona", "  ", "kg"},
	}
	for _, tc := range cases {
		err := core.CreateItem(context.Background(), tc.name, tc.quantity, tc.unit)
		if !errors.Is(err, ErrMissingFields) {
			t.Errorf("(%q,%q,%q): expected ErrMissingFields, got %v", tc.name, tc.quantity, tc.unit, err)
		}
	}

	srv.mu.Lock()
	creates := len(srv.creates)
	srv.mu.Unlock()
	if creates != 0 {
		t.Errorf("empty fields must send zero requests, saw %d", creates)
	}
	if srv.fetchCount() != before {
		t.Errorf("no resync should happen on local rejection")
	}
}

func TestCreateItemForcesFullResync(t *testing.T) {
	srv := &fakeServer{}
	core, _ := newTestCore(t, srv, nil, true)
	before := srv.fetchCount()

	// Server-side normalization is authoritative: the new item shows up
	// through the resync, never through a local point insert.
	srv.mu.Lock()
	srv.fetchResp = api.InventoryResponse{
		Inventory: []inventory.Item{{Name: "Azeitona", Quantity: 10, Unit: "kg"}},
		IsAdmin:   true,
	}
	srv.mu.Unlock()

	if err := core.CreateItem(context.Background(), " Azeitona ", "10", " kg "); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	srv.mu.Lock()
	create := srv.creates[0]
	srv.mu.Unlock()
	if create.Name != "Azeitona" || create.Quantity != "10" || create.Unit != "kg" {
		t.Errorf("fields not trimmed before sending: %+v", create)
	}

	if srv.fetchCount() != before+1 {
		t.Errorf("expected one forced resync, fetches went %d -> %d", before, srv.fetchCount())
	}
	if _, ok := core.Snapshot().Item("Azeitona"); !ok {
		t.Error("new item missing from snapshot after resync")
	}
}

func TestCreateItemSurfacesServerMessageVerbatim(t *testing.T) {
	srv := &fakeServer{createErr: &api.ServerError{Message: "Item já existe no estoque"}}
	core, _ := newTestCore(t, srv, nil, true)

	err := core.CreateItem(context.Background(), "Gelo", "5", "kg")
	if err == nil {
		t.Fatal("expected the server failure to propagate")
	}
	if err.Error() != "Item já existe no estoque" {
		t.Errorf("server message not surfaced verbatim: %q", err.Error())
	}
}

func TestCreateItemGenericFallbackMessage(t *testing.T) {
	srv := &fakeServer{createErr: &api.ServerError{}}
	core, _ := newTestCore(t, srv, nil, true)

	err := core.CreateItem(context.Background(), "Gelo", "5", "kg")
	if err == nil || err.Error() == "" {
		t.Fatal("expected a generic fallback message")
	}
}
