// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"stocksync/internal/config"
	"stocksync/internal/logger"
	"stocksync/internal/metrics"
	"stocksync/internal/middleware"
	"stocksync/internal/security"
	"stocksync/internal/server"
	"stocksync/internal/store"
)

type App struct {
	addr          string
	mux           *http.ServeMux
	connections   sync.WaitGroup
	totalRequests int64
}

// Seed operator accounts. The server of record is the sole authority on
// privilege; only adminriver sees low-stock alerts and may create items.
func seedUsers() *security.UserStore {
	users, err := security.NewUserStore(map[string]string{
		"bar1":       envOr("BAR_USER_PASSWORD", "usuariocomum"),
		"bar2":       envOr("BAR_USER_PASSWORD", "usuariocomum"),
		"bar3":       envOr("BAR_USER_PASSWORD", "usuariocomum"),
		"adminriver": envOr("ADMIN_PASSWORD", "admin123river"),
	}, "adminriver")
	if err != nil {
		logger.LogFatal("Failed to build user store: %v", err)
	}
	return users
}

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()
	config.ConfigurePaths()

	// Step 2: Setup logging
	if err := logger.SetupLogger(config.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.LogInfo("Environment and paths loaded. Logger ready.")

	// Step 3: Remaining settings
	config.LoadSessionConfig()
	config.LoadCORSConfig()
	config.LogCurrentEnvironment()
	security.SetSessionTTL(config.SessionTTL)

	// Step 4: Database
	if err := os.MkdirAll(config.DataDirectory(), 0775); err != nil {
		logger.LogFatal("Failed to create data directory: %v", err)
	}
	if err := store.ConnectDatabase(config.DatabasePath()); err != nil {
		logger.LogFatal("Failed to open database: %v", err)
	}
	defer store.CloseDatabase()

	// Step 5: Users and app
	server.SetUserStore(seedUsers())

	app := &App{
		addr: serverAddress(),
		mux:  routes(),
	}

	// Step 6: Start background tasks
	go security.CleanExpiredSessions()

	// Step 7: Run server
	app.Run()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// serverAddress builds the server address from environment variables
func serverAddress() string {
	host := os.Getenv("SERVER_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "5051"
	}
	return host + ":" + port
}

// routes sets up all API routes
func routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/api/login", middleware.RequestID(middleware.Logging(server.LoginHandler)))
	mux.HandleFunc("/api/logout", middleware.RequestID(middleware.Logging(server.LogoutHandler)))
	mux.HandleFunc("/api/inventory", middleware.APIMiddleware(server.InventoryHandler))
	mux.HandleFunc("/api/update_inventory", middleware.APIMiddleware(server.UpdateInventoryHandler))
	mux.HandleFunc("/api/create_item", middleware.APIMiddleware(server.CreateItemHandler))
	mux.HandleFunc("/api/report", middleware.APIMiddleware(server.ReportHandler))

	return mux
}

// Run starts the HTTP server
func (a *App) Run() {
	srv := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogFatal("Server failed: %v", err)
		}
	}()

	<-stop
	logger.LogInfo("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	a.connections.Wait()
	logger.LogInfo("All connections closed. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))
	logger.LogInfo("Server shut down gracefully")
}

// Handler assembles all middleware around the main mux
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.trackConnections(handler)
	handler = middleware.CORS(handler)

	return handler
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}
