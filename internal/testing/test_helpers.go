// internal/testing/test_helpers.go
package testing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"stocksync/internal/api"
	"stocksync/internal/client"
	"stocksync/internal/inventory"
	"stocksync/internal/middleware"
	"stocksync/internal/notify"
	"stocksync/internal/security"
	"stocksync/internal/server"
	"stocksync/internal/store"
)

// Test accounts, mirroring the production seeds.
const (
	CommonUser     = "bar1"
	CommonPassword = "usuariocomum"
	AdminUser      = "adminriver"
	AdminPassword  = "admin123river"
)

var setupOnce sync.Once

// setupBackend wires the shared database and user store once per test
// binary; the database is process-global, so all tests share it and each
// test sticks to its own item names.
func setupBackend(t *testing.T) {
	t.Helper()
	setupOnce.Do(func() {
		dir, err := os.MkdirTemp("", "stocksync-test-")
		if err != nil {
			panic(err)
		}
		if err := store.ConnectDatabase(filepath.Join(dir, "estoque.db")); err != nil {
			panic(err)
		}
		users, err := security.NewUserStore(map[string]string{
			CommonUser: CommonPassword,
			"bar2":     CommonPassword,
			AdminUser:  AdminPassword,
		}, AdminUser)
		if err != nil {
			panic(err)
		}
		server.SetUserStore(users)
	})
}

// NewTestServer builds a server with the production route table.
func NewTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	setupBackend(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", middleware.RequestID(middleware.Logging(server.LoginHandler)))
	mux.HandleFunc("/api/logout", middleware.RequestID(middleware.Logging(server.LogoutHandler)))
	mux.HandleFunc("/api/inventory", middleware.APIMiddleware(server.InventoryHandler))
	mux.HandleFunc("/api/update_inventory", middleware.APIMiddleware(server.UpdateInventoryHandler))
	mux.HandleFunc("/api/create_item", middleware.APIMiddleware(server.CreateItemHandler))
	mux.HandleFunc("/api/report", middleware.APIMiddleware(server.ReportHandler))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// LoggedInClient returns an API client holding a live session.
func LoggedInClient(t *testing.T, ts *httptest.Server, username, password string) *api.Client {
	t.Helper()

	c, err := api.NewClient(ts.URL)
	if err != nil {
		t.Fatalf("building API client: %v", err)
	}
	if err := c.Login(context.Background(), username, password); err != nil {
		t.Fatalf("login as %s failed: %v", username, err)
	}
	return c
}

// nopView satisfies client.View for cores under test.
type nopView struct{}

func (nopView) RenderInventory(inventory.Snapshot) {}
func (nopView) RenderAlert(*notify.Alert)          {}
func (nopView) RenderEditSession(client.EditState) {}
