package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brewandco/brew-counter/internal/model/order"
)

func TestListDecodesStructuredAndEncodedRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[
			{"order_id":"a","timestamp":"2026-08-30T10:15:00Z","items":[{"name":"Latte","price":5.5,"quantity":1}],"total":5.5,"status":"pending","customer_name":"Guest"},
			{"order_id":"b","timestamp":"2026-08-30T10:20:00Z","items":"[{\"name\":\"Tea\",\"price\":3.5,\"quantity\":2}]","total":"7.00","status":"in-progress","customer_name":"Sam"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	orders := client.List(context.Background())

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].Items[0].Name != "Latte" {
		t.Fatalf("structured items not decoded: %+v", orders[0].Items)
	}
	if orders[1].Items[0].Name != "Tea" || orders[1].Items[0].Quantity != 2 {
		t.Fatalf("string-encoded items not decoded: %+v", orders[1].Items)
	}
	if orders[1].Total != 7.00 {
		t.Fatalf("string total not coerced: %v", orders[1].Total)
	}
	if orders[1].Status != order.StatusInProgress {
		t.Fatalf("unexpected status: %s", orders[1].Status)
	}
}

func TestListSkipsUndecodableRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[
			{"order_id":"bad","items":"{{nope","total":"x"},
			{"order_id":"good","timestamp":"2026-08-30T10:15:00Z","items":[],"total":0,"status":"completed"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	orders := client.List(context.Background())

	if len(orders) != 1 || orders[0].OrderID != "good" {
		t.Fatalf("expected only the decodable row, got %+v", orders)
	}
}

func TestListTransportFailureReturnsEmpty(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 200*time.Millisecond)
	if orders := client.List(context.Background()); len(orders) != 0 {
		t.Fatalf("expected empty result, got %d orders", len(orders))
	}
}

func TestCreateSendsAddOrderAction(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	ok := client.Create(context.Background(), order.Order{
		OrderID:      "abc",
		Timestamp:    time.Now().UTC(),
		Items:        []order.OrderItem{{Name: "Latte", Price: 5.5, Quantity: 1}},
		Total:        5.5,
		Status:       order.StatusPending,
		CustomerName: "Guest",
	})

	if !ok {
		t.Fatal("create should succeed")
	}
	if got["action"] != "addOrder" {
		t.Fatalf("unexpected action: %v", got["action"])
	}
	if _, ok := got["order"]; !ok {
		t.Fatal("payload missing order")
	}
}

func TestCreateTransportFailureReturnsFalse(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", 200*time.Millisecond)
	if client.Create(context.Background(), order.Order{OrderID: "x"}) {
		t.Fatal("create should report failure")
	}
}

func TestUpdateStatusFireAndForget(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		// The webhook often replies with an empty body; that is fine.
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if !client.UpdateStatus(context.Background(), "abc", order.StatusInProgress) {
		t.Fatal("update should report handoff success")
	}
	if got["action"] != "updateStatus" || got["order_id"] != "abc" || got["status"] != "in-progress" {
		t.Fatalf("unexpected payload: %v", got)
	}
}
