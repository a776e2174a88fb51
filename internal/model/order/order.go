package order

import "time"

// OrderItem is a single line on a receipt. Optional attributes stay empty
// for items that do not carry them (food has no size or milk).
type OrderItem struct {
	Name          string   `json:"name"`
	Size          string   `json:"size,omitempty"`
	Milk          string   `json:"milk,omitempty"`
	Temperature   string   `json:"temperature,omitempty"`
	Modifications []string `json:"modifications,omitempty"`
	Shots         int      `json:"shots,omitempty"`
	Sweetness     string   `json:"sweetness,omitempty"`
	Ice           string   `json:"ice,omitempty"`
	Price         float64  `json:"price"`
	Quantity      int      `json:"quantity"`
}

// Receipt is the structured, priced summary the completion engine emits when
// the customer confirms their order. Total is authoritative as quoted by the
// engine; it is never recomputed from item prices.
type Receipt struct {
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	SpecialNotes string      `json:"special_notes,omitempty"`
}

// Order is a persisted order record derived from a finalized receipt.
// Field names match the order store's wire shape.
type Order struct {
	OrderID      string      `json:"order_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Items        []OrderItem `json:"items"`
	Total        float64     `json:"total"`
	Status       Status      `json:"status"`
	CustomerName string      `json:"customer_name"`
	SpecialNotes string      `json:"special_notes,omitempty"`
}
