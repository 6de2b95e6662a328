// internal/notify/notify.go
package notify

import (
	"fmt"
	"strings"

	"stocksync/internal/inventory"
)

// Alert is the single aggregate low-stock notification. There is never
// more than one: each derivation fully replaces the previous alert state.
type Alert struct {
	Title   string
	Message string
	Items   []string
}

// Derive computes the alert for a snapshot. Returns nil when the caller is
// not privileged or nothing is low on stock; a nil alert means "clear".
func Derive(snap inventory.Snapshot) *Alert {
	return FromNames(snap.LowStockNames())
}

// FromNames builds the alert for an already-derived name list, keeping the
// order given. The server's poll response carries such a list precomputed.
func FromNames(names []string) *Alert {
	if len(names) == 0 {
		return nil
	}

	var message string
	if len(names) == 1 {
		message = fmt.Sprintf("O item %s está com %d unidades ou menos.",
			names[0], inventory.LowStockThreshold)
	} else {
		message = fmt.Sprintf("Os itens %s estão com %d unidades ou menos.",
			strings.Join(names, ", "), inventory.LowStockThreshold)
	}

	return &Alert{
		Title:   "Alerta de Estoque Baixo!",
		Message: message,
		Items:   names,
	}
}
