// internal/notify/notify_test.go
package notify

import (
	"strings"
	"testing"

	"stocksync/internal/inventory"
)

func TestDeriveUnprivilegedIsAlwaysClear(t *testing.T) {
	snap := inventory.Snapshot{
		Items: []inventory.Item{
			{Name: "Limão", Quantity: 1, Unit: "kg"},
		},
		Privileged: false,
	}
	if alert := Derive(snap); alert != nil {
		t.Errorf("unprivileged snapshot produced an alert: %+v", alert)
	}
}

func TestDeriveEmptyListClears(t *testing.T) {
	snap := inventory.Snapshot{
		Items: []inventory.Item{
			{Name: "Cerveja Lata", Quantity: 50, Unit: "unidades"},
		},
		Privileged: true,
	}
	if alert := Derive(snap); alert != nil {
		t.Errorf("nothing low on stock, but got %+v", alert)
	}
}

func TestSingularGrammar(t *testing.T) {
	alert := FromNames([]string{"Gelo"})
	if alert == nil {
		t.Fatal("expected an alert")
	}
	if alert.Message != "O item Gelo está com 5 unidades ou menos." {
		t.Errorf("unexpected singular message: %q", alert.Message)
	}
}

func TestPluralGrammarKeepsOrder(t *testing.T) {
	alert := FromNames([]string{"Gelo", "Limão"})
	if alert == nil {
		t.Fatal("expected an alert")
	}
	if !strings.Contains(alert.Message, "Gelo, Limão") {
		t.Errorf("names out of order or missing: %q", alert.Message)
	}
	if !strings.HasPrefix(alert.Message, "Os itens") {
		t.Errorf("expected plural grammar: %q", alert.Message)
	}
	if len(alert.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(alert.Items))
	}
}
