package order

import "time"

type Line struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	// Name and unit price are captured at order time and stay decoupled from
	// later catalog changes; historical reporting depends on that.
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

func (l Line) Amount() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Total      int64     `json:"total"`
	Status     Status    `json:"status"`
	Viewed     bool      `json:"viewed"`
	CreatedAt  time.Time `json:"createdAt"`
	Lines      []Line    `json:"lines"`
}
