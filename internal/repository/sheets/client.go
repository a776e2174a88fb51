// Package sheets adapts the remote tabular order store, a spreadsheet
// webhook reached over HTTP. The store is loose about shapes: list rows may
// deliver items as a JSON array or a string-encoded array, and totals as
// number or string, so every read goes through a validating decode.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brewandco/brew-counter/internal/model/order"
)

const (
	actionAddOrder     = "addOrder"
	actionUpdateStatus = "updateStatus"
)

// Client talks to the order store webhook. All operations catch transport
// and parse errors internally and report boolean or empty-result failure;
// a degraded UI is preferred to a crashed session.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient creates an order store client. timeout bounds each round-trip.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Create persists a new order. The order id is generated client-side before
// this call and doubles as the idempotency key. Returns false on any
// transport failure; failure to persist must not abort the conversation.
func (c *Client) Create(ctx context.Context, o order.Order) bool {
	payload := struct {
		Action string      `json:"action"`
		Order  order.Order `json:"order"`
	}{Action: actionAddOrder, Order: o}

	if err := c.post(ctx, payload); err != nil {
		log.Printf("[sheets] create order failed: %v", err)
		return false
	}
	return true
}

// List fetches all known orders. Rows that fail to decode are skipped with a
// log line; transport or parse failure yields an empty slice. Ordering is
// store-defined; callers needing chronological order sort explicitly.
func (c *Client) List(ctx context.Context) []order.Order {
	// Cache-busting query param, the store caches aggressively.
	url := fmt.Sprintf("%s?t=%d", c.webhookURL, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("[sheets] list request build failed: %v", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[sheets] list failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[sheets] list returned status %d", resp.StatusCode)
		return nil
	}

	var envelope struct {
		Orders []wireOrder `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		log.Printf("[sheets] list decode failed: %v", err)
		return nil
	}

	orders := make([]order.Order, 0, len(envelope.Orders))
	for _, row := range envelope.Orders {
		decoded, err := row.toOrder()
		if err != nil {
			log.Printf("[sheets] skipping undecodable row %q: %v", row.OrderID, err)
			continue
		}
		orders = append(orders, decoded)
	}
	return orders
}

// UpdateStatus is a best-effort fire-and-forget write. The webhook does not
// reliably return a response body, so a true result only means the request
// was handed off; callers reconcile on the next List.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, status order.Status) bool {
	payload := struct {
		Action  string `json:"action"`
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}{Action: actionUpdateStatus, OrderID: orderID, Status: string(status)}

	if err := c.post(ctx, payload); err != nil {
		log.Printf("[sheets] update status failed for %s: %v", orderID, err)
		return false
	}
	return true
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// The webhook only accepts simple requests; text/plain avoids a preflight
	// on the store side.
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// wireOrder is the loose row shape the store returns.
type wireOrder struct {
	OrderID      string          `json:"order_id"`
	Timestamp    string          `json:"timestamp"`
	Items        json.RawMessage `json:"items"`
	Total        json.RawMessage `json:"total"`
	Status       string          `json:"status"`
	CustomerName string          `json:"customer_name"`
	SpecialNotes string          `json:"special_notes"`
}

func (w wireOrder) toOrder() (order.Order, error) {
	items, err := decodeItems(w.Items)
	if err != nil {
		return order.Order{}, err
	}

	total, err := decodeTotal(w.Total)
	if err != nil {
		return order.Order{}, err
	}

	status := order.Status(strings.TrimSpace(w.Status))
	if !status.Valid() {
		status = order.StatusPending
	}

	customer := w.CustomerName
	if customer == "" {
		customer = "Guest"
	}

	ts, err := time.Parse(time.RFC3339, w.Timestamp)
	if err != nil {
		// Some store deployments format timestamps without a zone.
		ts, err = time.Parse("2006-01-02 15:04:05", w.Timestamp)
		if err != nil {
			ts = time.Time{}
		}
	}

	return order.Order{
		OrderID:      w.OrderID,
		Timestamp:    ts,
		Items:        items,
		Total:        total,
		Status:       status,
		CustomerName: customer,
		SpecialNotes: w.SpecialNotes,
	}, nil
}

// decodeItems tolerates both an already-structured array and a
// string-encoded array needing a secondary decode.
func decodeItems(raw json.RawMessage) ([]order.OrderItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []order.OrderItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("items neither array nor string: %w", err)
	}
	if strings.TrimSpace(encoded) == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return nil, fmt.Errorf("string-encoded items: %w", err)
	}
	return items, nil
}

func decodeTotal(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, fmt.Errorf("total neither number nor string: %w", err)
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("total %q: %w", text, err)
	}
	return number, nil
}
