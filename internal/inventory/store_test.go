// internal/inventory/store_test.go
package inventory

import (
	"reflect"
	"testing"
)

func TestReplaceIsTotal(t *testing.T) {
	s := NewStore()
	if err := s.Replace([]Item{
		{Name: "Gelo", Quantity: 8, Unit: "kg"},
		{Name: "Limão", Quantity: 3, Unit: "kg"},
	}, false); err != nil {
		t.Fatalf("first replace failed: %v", err)
	}

	if err := s.Replace([]Item{
		{Name: "Limão", Quantity: 10, Unit: "kg"},
		{Name: "Taças", Quantity: 20, Unit: "unidades"},
	}, true); err != nil {
		t.Fatalf("second replace failed: %v", err)
	}

	snap := s.Snapshot()
	if _, ok := snap.Item("Gelo"); ok {
		t.Error("key absent from the new payload must be gone")
	}
	if item, _ := snap.Item("Limão"); item.Quantity != 10 {
		t.Errorf("kept key must reflect exactly the incoming value, got %d", item.Quantity)
	}
	if !snap.Privileged {
		t.Error("privilege flag not replaced")
	}
}

func TestReplaceMalformedPayloadRetainsPrevious(t *testing.T) {
	s := NewStore()
	if err := s.Replace([]Item{{Name: "Gelo", Quantity: 8, Unit: "kg"}}, true); err != nil {
		t.Fatalf("seed replace failed: %v", err)
	}

	bad := [][]Item{
		{{Name: "", Quantity: 1, Unit: "kg"}},
		{{Name: "X", Quantity: 1, Unit: ""}},
		{{Name: "X", Quantity: -1, Unit: "kg"}},
		{{Name: "X", Quantity: 1, Unit: "kg"}, {Name: "X", Quantity: 2, Unit: "kg"}},
	}
	for i, payload := range bad {
		if err := s.Replace(payload, false); err == nil {
			t.Errorf("payload %d: expected a replace failure", i)
		}
	}

	// Fail-safe, not fail-open: previous snapshot fully retained.
	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Name != "Gelo" || !snap.Privileged {
		t.Errorf("previous snapshot not retained: %+v", snap)
	}
}

func TestApplyConfirmedQuantity(t *testing.T) {
	s := NewStore()
	if err := s.Replace([]Item{{Name: "Gelo", Quantity: 8, Unit: "kg"}}, false); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if !s.ApplyConfirmedQuantity("Gelo", 2) {
		t.Fatal("apply against an existing key must succeed")
	}
	if item, _ := s.Item("Gelo"); item.Quantity != 2 {
		t.Errorf("expected 2, got %d", item.Quantity)
	}

	if s.ApplyConfirmedQuantity("Fantasma", 1) {
		t.Error("apply against a missing key must be a no-op")
	}
	if !s.ConsumeStale() {
		t.Error("missed apply must mark the store stale")
	}
	if s.ConsumeStale() {
		t.Error("stale marker must be consumed")
	}
}

func TestLowStockNamesOrderAndPrivilege(t *testing.T) {
	items := []Item{
		{Name: "A", Quantity: 5, Unit: "un"},
		{Name: "B", Quantity: 6, Unit: "un"},
		{Name: "C", Quantity: 3, Unit: "un"},
	}

	s := NewStore()
	if err := s.Replace(items, true); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if got := s.LowStockNames(); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("expected [A C] in snapshot order, got %v", got)
	}

	if err := s.Replace(items, false); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if got := s.LowStockNames(); len(got) != 0 {
		t.Errorf("unprivileged snapshot must derive nothing, got %v", got)
	}
}

func TestSnapshotPreservesServerOrder(t *testing.T) {
	s := NewStore()
	items := []Item{
		{Name: "Z", Quantity: 1, Unit: "un"},
		{Name: "A", Quantity: 2, Unit: "un"},
		{Name: "M", Quantity: 3, Unit: "un"},
	}
	if err := s.Replace(items, false); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	snap := s.Snapshot()
	for i, item := range snap.Items {
		if item.Name != items[i].Name {
			t.Fatalf("order not preserved at %d: %s", i, item.Name)
		}
	}
}
