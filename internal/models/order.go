package models

import "time"

// OrderItem is one priced line of an order, copied out of the catalog
// snapshot at synthesis time.
type OrderItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderEvent is the flat record published for every synthesized order.
// Field names are stable; downstream consumers key off order_id, timestamp,
// brand, items and total.
type OrderEvent struct {
	OrderID   string      `json:"order_id"`
	Timestamp time.Time   `json:"timestamp"`
	Customer  string      `json:"customer"`
	Address   string      `json:"address"`
	Brand     string      `json:"brand"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
}
