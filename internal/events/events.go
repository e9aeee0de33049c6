// Package events publishes order lifecycle events for out-of-process
// consumers (fulfilment tooling, future notification workers).
package events

import "time"

const (
	OrderCreatedQueue = "shop.order.created"
)

type OrderLine struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

type OrderCreated struct {
	EventType     string      `json:"eventType"`
	OrderID       string      `json:"orderId"`
	CustomerID    string      `json:"customerId"`
	CustomerEmail string      `json:"customerEmail"`
	Total         int64       `json:"total"`
	Lines         []OrderLine `json:"lines"`
	Timestamp     time.Time   `json:"timestamp"`
}
