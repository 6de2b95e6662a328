// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"

	"stocksync/internal/inventory"
	"stocksync/internal/logger"
)

// Client talks to the server of record. Requests carry no timeout: a hung
// request simply never resolves, and the next poll tick is the recovery
// mechanism for everything transient.
type Client struct {
	baseURL string
	http    *http.Client
}

// ServerError is a logical failure reported by the server (success=false).
// Message is the server-provided text, verbatim, possibly empty.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return "server rejected the request"
	}
	return e.Message
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// InventoryResponse is the full snapshot read. Items arrive as an ordered
// list so the server's insertion order survives JSON.
type InventoryResponse struct {
	Inventory     []inventory.Item `json:"inventory"`
	LowStockItems []string         `json:"low_stock_items"`
	IsAdmin       bool             `json:"is_admin"`
}

type updateRequest struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type createRequest struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// NewClient builds a client with a cookie jar so the login session cookie
// rides along on every later call.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var status statusResponse
	if err := c.postJSON(ctx, "/api/login", loginRequest{Username: username, Password: password}, &status); err != nil {
		return err
	}
	if !status.Success {
		return &ServerError{Message: status.Message}
	}
	logger.LogInfo("Logged in as %s", username)
	return nil
}

// FetchInventory reads the full snapshot.
func (c *Client) FetchInventory(ctx context.Context) (*InventoryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/inventory", nil)
	if err != nil {
		return nil, fmt.Errorf("creating inventory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing inventory request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading inventory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var result InventoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing inventory response: %w", err)
	}
	return &result, nil
}

// UpdateQuantity issues a single-item confirmed set. A nil return means
// the server acknowledged success; anything else means the mutation must
// not be applied locally.
func (c *Client) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	var status statusResponse
	if err := c.postJSON(ctx, "/api/update_inventory", updateRequest{Item: name, Quantity: quantity}, &status); err != nil {
		return err
	}
	if !status.Success {
		return &ServerError{Message: status.Message}
	}
	return nil
}

// CreateItem asks the server to add a new item. Quantity travels as the
// raw string the operator typed; the server owns parsing and validation.
func (c *Client) CreateItem(ctx context.Context, name, quantity, unit string) error {
	var status statusResponse
	if err := c.postJSON(ctx, "/api/create_item", createRequest{Item: name, Quantity: quantity, Unit: unit}, &status); err != nil {
		return err
	}
	if !status.Success {
		return &ServerError{Message: status.Message}
	}
	return nil
}

// FetchReport downloads the movement report as an opaque blob. The
// suggested filename comes from Content-Disposition when present.
func (c *Client) FetchReport(ctx context.Context) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/report", nil)
	if err != nil {
		return "", nil, fmt.Errorf("creating report request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("executing report request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", nil, fmt.Errorf("report fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading report body: %w", err)
	}

	filename := "relatorio_estoque.pdf"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return filename, data, nil
}

// postJSON sends a JSON body and decodes a JSON reply. Non-2xx statuses
// with a decodable body still yield the decoded status so server-reported
// failures keep their message.
func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request for %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response for %s: %w", path, err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("parsing response for %s: %w", path, err)
	}
	return nil
}
