// internal/server/server.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stocksync/internal/inventory"
	"stocksync/internal/logger"
	"stocksync/internal/metrics"
	"stocksync/internal/middleware"
	"stocksync/internal/report"
	"stocksync/internal/security"
	"stocksync/internal/store"
)

var (
	users    *security.UserStore
	timeZone *time.Location
)

// inject the user store from main
func SetUserStore(s *security.UserStore) {
	users = s
}

func init() {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	timeZone = loc
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateRequest struct {
	Item     string      `json:"item"`
	Quantity json.Number `json:"quantity"`
}

type createRequest struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

type inventoryResponse struct {
	Inventory     []inventory.Item `json:"inventory"`
	LowStockItems []string         `json:"low_stock_items"`
	IsAdmin       bool             `json:"is_admin"`
}

// LoginHandler verifies credentials and issues the session cookie.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	if r.Method != http.MethodPost {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest, "Usuário ou senha inválidos")
		return
	}

	if !users.Verify(req.Username, req.Password) {
		logger.LogWarn("Failed login attempt for %q from %s", req.Username, logger.GetClientIP(r))
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "message": "Usuário ou senha inválidos",
		})
		return
	}

	token, err := security.CreateSession(req.Username)
	if err != nil {
		logger.LogError("Failed to create session for %q: %v", req.Username, err)
		middleware.WriteFailure(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     security.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// LogoutHandler destroys the session.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		security.DestroySession(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     security.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// InventoryHandler returns the full snapshot. Low-stock names are a
// privileged-only signal and stay empty for common users.
func InventoryHandler(w http.ResponseWriter, r *http.Request) {
	items, err := store.LoadInventory(r.Context())
	if err != nil {
		logger.LogError("Failed to load inventory: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	isAdmin := users.IsAdmin(middleware.GetUsername(r.Context()))
	lowStock := []string{}
	if isAdmin {
		for _, item := range items {
			if item.Quantity <= inventory.LowStockThreshold {
				lowStock = append(lowStock, item.Name)
			}
		}
	}

	middleware.WriteJSON(w, http.StatusOK, inventoryResponse{
		Inventory:     items,
		LowStockItems: lowStock,
		IsAdmin:       isAdmin,
	})
}

// UpdateInventoryHandler applies a single-item confirmed set and records
// the movement as entrada or saída depending on the direction.
func UpdateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest, "Quantidade inválida")
		return
	}

	item, found, err := store.GetItem(r.Context(), req.Item)
	if err != nil {
		logger.LogError("Failed to fetch item %q: %v", req.Item, err)
		middleware.WriteFailure(w, http.StatusInternalServerError, "Erro interno")
		return
	}
	if !found {
		middleware.WriteFailure(w, http.StatusBadRequest, "Item não encontrado")
		return
	}

	newQuantity, err := strconv.Atoi(req.Quantity.String())
	if err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest, "Quantidade inválida")
		return
	}
	if newQuantity < 0 {
		middleware.WriteFailure(w, http.StatusBadRequest, "Quantidade não pode ser negativa")
		return
	}

	if err := store.SetQuantity(r.Context(), req.Item, newQuantity); err != nil {
		logger.LogError("Failed to update %q: %v", req.Item, err)
		middleware.WriteFailure(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	if newQuantity != item.Quantity {
		recordMovementRow(r, req.Item, item.Quantity, newQuantity)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// CreateItemHandler adds a new item. Admin only; the quantity arrives as
// the raw string the client forwarded and is parsed here.
func CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	username := middleware.GetUsername(r.Context())
	if !users.IsAdmin(username) {
		middleware.WriteFailure(w, http.StatusForbidden, "Apenas administradores podem criar novos itens")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest, "Preencha todos os campos (item, quantity, unit)")
		return
	}

	name := strings.TrimSpace(req.Item)
	unit := strings.TrimSpace(req.Unit)
	quantityStr := strings.TrimSpace(req.Quantity)
	if name == "" || quantityStr == "" || unit == "" {
		middleware.WriteFailure(w, http.StatusBadRequest, "Preencha todos os campos (item, quantity, unit)")
		return
	}

	_, exists, err := store.GetItem(r.Context(), name)
	if err != nil {
		logger.LogError("Failed to check item %q: %v", name, err)
		middleware.WriteFailure(w, http.StatusInternalServerError, "Erro interno")
		return
	}
	if exists {
		middleware.WriteFailure(w, http.StatusBadRequest, "Item já existe no estoque")
		return
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		middleware.WriteFailure(w, http.StatusBadRequest, "Quantidade inválida")
		return
	}
	if quantity < 0 {
		middleware.WriteFailure(w, http.StatusBadRequest, "Quantidade não pode ser negativa")
		return
	}

	if err := store.InsertItem(r.Context(), inventory.Item{Name: name, Quantity: quantity, Unit: unit}); err != nil {
		logger.LogError("Failed to insert item %q: %v", name, err)
		middleware.WriteFailure(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	now := time.Now().In(timeZone)
	if err := store.RecordMovement(r.Context(), store.Movement{
		Item:     name,
		Quantity: quantity,
		Username: username,
		Date:     now.Format("2006-01-02"),
		Time:     now.Format("15:04:05"),
		Type:     store.MovementIn,
	}); err != nil {
		logger.LogError("Failed to record creation movement for %q: %v", name, err)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Item %q criado com sucesso!", name),
	})
}

// ReportHandler streams the outbound-movements PDF.
func ReportHandler(w http.ResponseWriter, r *http.Request) {
	movements, err := store.OutboundMovements(r.Context())
	if err != nil {
		logger.LogError("Failed to load movements for report: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	now := time.Now().In(timeZone)
	blob, err := report.Generate(movements, now)
	if err != nil {
		logger.LogError("Failed to generate report: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Erro interno")
		return
	}
	metrics.ReportsGenerated.Inc()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(now)))
	w.Write(blob)
}

// recordMovementRow logs the delta as an entrada or saída movement.
func recordMovementRow(r *http.Request, name string, oldQuantity, newQuantity int) {
	movementType := store.MovementIn
	difference := newQuantity - oldQuantity
	if newQuantity < oldQuantity {
		movementType = store.MovementOut
		difference = oldQuantity - newQuantity
	}

	now := time.Now().In(timeZone)
	err := store.RecordMovement(r.Context(), store.Movement{
		Item:     name,
		Quantity: difference,
		Username: middleware.GetUsername(r.Context()),
		Date:     now.Format("2006-01-02"),
		Time:     now.Format("15:04:05"),
		Type:     movementType,
	})
	if err != nil {
		logger.LogError("Failed to record movement for %q: %v", name, err)
	}
}
