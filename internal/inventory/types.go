// internal/inventory/types.go
package inventory

// LowStockThreshold is the quantity at or below which an item counts as
// low stock.
const LowStockThreshold = 5

// Item is one ledger entry. The name is the key; there is no surrogate id.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// Snapshot is a read-only copy of the full local picture, handed to the
// view and the notification engine. Items preserve the order the server
// sent them in.
type Snapshot struct {
	Items      []Item
	Privileged bool
}

// LowStockNames returns the names of items at or below the threshold, in
// snapshot order. Low stock is a privileged-only signal, so the list is
// empty for unprivileged snapshots regardless of quantities.
func (s Snapshot) LowStockNames() []string {
	if !s.Privileged {
		return nil
	}
	var names []string
	for _, item := range s.Items {
		if item.Quantity <= LowStockThreshold {
			names = append(names, item.Name)
		}
	}
	return names
}

// Item looks an item up by name.
func (s Snapshot) Item(name string) (Item, bool) {
	for _, item := range s.Items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}
