// internal/store/store_test.go
package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"stocksync/internal/inventory"
)

var (
	connectOnce sync.Once
	connectErr  error
)

func connect(t *testing.T) {
	t.Helper()
	// ConnectDatabase is once-per-process; the first test wins and the
	// rest reuse the same handle. The directory must outlive every test,
	// so it cannot come from t.TempDir().
	connectOnce.Do(func() {
		dir, err := os.MkdirTemp("", "stocksync-store-test-")
		if err != nil {
			connectErr = err
			return
		}
		connectErr = ConnectDatabase(filepath.Join(dir, "test.db"))
	})
	if connectErr != nil {
		t.Fatalf("connecting database: %v", connectErr)
	}
}

func TestSeededInventoryOrder(t *testing.T) {
	connect(t)

	items, err := LoadInventory(context.Background())
	if err != nil {
		t.Fatalf("loading inventory: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("expected 10 seeded items, got %d", len(items))
	}
	if items[0].Name != "Cerveja Lata" || items[9].Name != "Guardanapos" {
		t.Errorf("seed order not preserved: first %q last %q", items[0].Name, items[9].Name)
	}
}

func TestSetQuantityAndGetItem(t *testing.T) {
	connect(t)
	ctx := context.Background()

	if err := SetQuantity(ctx, "Gelo", 2); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	item, found, err := GetItem(ctx, "Gelo")
	if err != nil || !found {
		t.Fatalf("get failed: %v found=%v", err, found)
	}
	if item.Quantity != 2 || item.Unit != "kg" {
		t.Errorf("unexpected item: %+v", item)
	}

	if err := SetQuantity(ctx, "Fantasma", 1); err == nil {
		t.Error("updating a missing item must fail")
	}
	if _, found, _ := GetItem(ctx, "Fantasma"); found {
		t.Error("missing item reported as found")
	}
}

func TestInsertItemAppendsAtEnd(t *testing.T) {
	connect(t)
	ctx := context.Background()

	item := inventory.Item{Name: "Azeitona", Quantity: 4, Unit: "kg"}
	if err := InsertItem(ctx, item); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	items, err := LoadInventory(ctx)
	if err != nil {
		t.Fatalf("loading inventory: %v", err)
	}
	if items[len(items)-1].Name != "Azeitona" {
		t.Errorf("new item not at the end: %q", items[len(items)-1].Name)
	}

	if err := InsertItem(ctx, item); err == nil {
		t.Error("duplicate insert must fail on the primary key")
	}
}

func TestMovementsRoundTrip(t *testing.T) {
	connect(t)
	ctx := context.Background()

	out := Movement{
		Item: "Cerveja Lata", Quantity: 10, Username: "bar1",
		Date: "2026-08-30", Time: "13:00:00", Type: MovementOut,
	}
	in := Movement{
		Item: "Cerveja Lata", Quantity: 5, Username: "bar2",
		Date: "2026-08-30", Time: "13:30:00", Type: MovementIn,
	}
	if err := RecordMovement(ctx, out); err != nil {
		t.Fatalf("recording saída: %v", err)
	}
	if err := RecordMovement(ctx, in); err != nil {
		t.Fatalf("recording entrada: %v", err)
	}

	movements, err := OutboundMovements(ctx)
	if err != nil {
		t.Fatalf("loading movements: %v", err)
	}
	for _, m := range movements {
		if m.Type != MovementOut {
			t.Errorf("entrada leaked into the outbound report: %+v", m)
		}
		if m.ID == "" {
			t.Error("movement id not generated")
		}
	}
	if len(movements) == 0 {
		t.Fatal("saída movement missing from the report query")
	}
}
