// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"stocksync/internal/inventory"
	"stocksync/internal/logger"
)

// Global database instance
var (
	db     *sql.DB
	dbMu   sync.RWMutex
	dbInit sync.Once
)

// Database connection pool configuration
const (
	maxOpenConns    = 10
	maxIdleConns    = 2
	connMaxLifetime = time.Hour
	queryTimeout    = time.Second * 30
)

// Movement is one ledger mutation, kept for the outbound report.
type Movement struct {
	ID       string
	Item     string
	Quantity int
	Username string
	Date     string // 2006-01-02
	Time     string // 15:04:05
	Type     string // MovementIn or MovementOut
}

const (
	MovementIn  = "entrada"
	MovementOut = "saída"
)

// ConnectDatabase opens (once) the SQLite database, creates the schema
// and seeds the initial inventory when empty.
func ConnectDatabase(path string) error {
	var initErr error
	dbInit.Do(func() {
		handle, err := sql.Open("sqlite", path)
		if err != nil {
			initErr = fmt.Errorf("opening database %s: %w", path, err)
			return
		}
		handle.SetMaxOpenConns(maxOpenConns)
		handle.SetMaxIdleConns(maxIdleConns)
		handle.SetConnMaxLifetime(connMaxLifetime)

		if err := createSchema(handle); err != nil {
			initErr = err
			return
		}
		if err := seedInventory(handle); err != nil {
			initErr = err
			return
		}

		dbMu.Lock()
		db = handle
		dbMu.Unlock()
		logger.LogInfo("Database ready at %s", path)
	})
	return initErr
}

// CloseDatabase closes the handle. Used by tests and shutdown.
func CloseDatabase() {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db != nil {
		db.Close()
		db = nil
	}
}

func getDB() *sql.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

func createSchema(handle *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS inventory (
		name     TEXT PRIMARY KEY,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		unit     TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS movements (
		id            TEXT PRIMARY KEY,
		item          TEXT NOT NULL,
		quantity      INTEGER NOT NULL,
		username      TEXT NOT NULL,
		movement_date TEXT NOT NULL,
		movement_time TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT (datetime('now'))
	);`
	if _, err := handle.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// seedInventory loads the default bar stock on first run.
func seedInventory(handle *sql.DB) error {
	var count int
	if err := handle.QueryRow(`SELECT COUNT(*) FROM inventory`).Scan(&count); err != nil {
		return fmt.Errorf("counting inventory rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := []inventory.Item{
		{Name: "Cerveja Lata", Quantity: 50, Unit: "unidades"},
		{Name: "Cerveja Garrafa", Quantity: 30, Unit: "unidades"},
		{Name: "Refrigerante", Quantity: 40, Unit: "unidades"},
		{Name: "Água", Quantity: 60, Unit: "unidades"},
		{Name: "Gelo", Quantity: 8, Unit: "kg"},
		{Name: "Limão", Quantity: 3, Unit: "kg"},
		{Name: "Energético", Quantity: 15, Unit: "unidades"},
		{Name: "Taças", Quantity: 20, Unit: "unidades"},
		{Name: "Copos Descartáveis", Quantity: 100, Unit: "unidades"},
		{Name: "Guardanapos", Quantity: 200, Unit: "unidades"},
	}

	tx, err := handle.Begin()
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	for i, item := range seed {
		if _, err := tx.Exec(
			`INSERT INTO inventory (name, quantity, unit, position) VALUES (?, ?, ?, ?)`,
			item.Name, item.Quantity, item.Unit, i,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding item %q: %w", item.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	logger.LogInfo("Seeded inventory with %d items", len(seed))
	return nil
}

// LoadInventory returns all items in insertion order.
func LoadInventory(ctx context.Context) ([]inventory.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := getDB().QueryContext(ctx,
		`SELECT name, quantity, unit FROM inventory ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		var item inventory.Item
		if err := rows.Scan(&item.Name, &item.Quantity, &item.Unit); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem fetches one item by name.
func GetItem(ctx context.Context, name string) (inventory.Item, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var item inventory.Item
	err := getDB().QueryRowContext(ctx,
		`SELECT name, quantity, unit FROM inventory WHERE name = ?`, name,
	).Scan(&item.Name, &item.Quantity, &item.Unit)
	if err == sql.ErrNoRows {
		return inventory.Item{}, false, nil
	}
	if err != nil {
		return inventory.Item{}, false, fmt.Errorf("fetching item %q: %w", name, err)
	}
	return item, true, nil
}

// SetQuantity updates an existing item's quantity.
func SetQuantity(ctx context.Context, name string, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := getDB().ExecContext(ctx,
		`UPDATE inventory SET quantity = ? WHERE name = ?`, quantity, name)
	if err != nil {
		return fmt.Errorf("updating quantity for %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("item %q not found", name)
	}
	return nil
}

// InsertItem appends a new item after the current last position.
func InsertItem(ctx context.Context, item inventory.Item) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := getDB().ExecContext(ctx,
		`INSERT INTO inventory (name, quantity, unit, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM inventory))`,
		item.Name, item.Quantity, item.Unit)
	if err != nil {
		return fmt.Errorf("inserting item %q: %w", item.Name, err)
	}
	return nil
}

// RecordMovement appends one movement row. The id is generated here.
func RecordMovement(ctx context.Context, m Movement) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := getDB().ExecContext(ctx,
		`INSERT INTO movements (id, item, quantity, username, movement_date, movement_time, movement_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Item, m.Quantity, m.Username, m.Date, m.Time, m.Type)
	if err != nil {
		return fmt.Errorf("recording movement for %q: %w", m.Item, err)
	}
	return nil
}

// OutboundMovements returns the saída rows for the report, oldest first.
func OutboundMovements(ctx context.Context) ([]Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := getDB().QueryContext(ctx,
		`SELECT id, item, quantity, username, movement_date, movement_time, movement_type
		 FROM movements WHERE movement_type = ? ORDER BY created_at`, MovementOut)
	if err != nil {
		return nil, fmt.Errorf("loading outbound movements: %w", err)
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.Item, &m.Quantity, &m.Username, &m.Date, &m.Time, &m.Type); err != nil {
			return nil, fmt.Errorf("scanning movement row: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
