// Package analytics derives the admin dashboard metrics, time series and
// exports from the order and product collections.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/catalog"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
)

// OrderSource is the slice of order.Repository the aggregator reads from.
type OrderSource interface {
	ListAll(ctx context.Context) ([]order.Order, error)
	ListUnviewed(ctx context.Context) ([]order.Order, error)
	ListSince(ctx context.Context, since time.Time) ([]order.Order, error)
}

// ProductSource is the slice of catalog.Repository the aggregator reads from.
type ProductSource interface {
	List(ctx context.Context, search string, category catalog.Category) ([]catalog.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]catalog.Product, error)
	Count(ctx context.Context) (int, error)
}

// CustomerSource resolves customer details for the order export rows.
type CustomerSource interface {
	List(ctx context.Context) ([]customer.Customer, error)
}

type Service struct {
	orders    OrderSource
	products  ProductSource
	customers CustomerSource
	now       func() time.Time
}

func NewService(orders OrderSource, products ProductSource, customers CustomerSource) *Service {
	return &Service{orders: orders, products: products, customers: customers, now: time.Now}
}

type DashboardMetrics struct {
	TotalOrders   int `json:"totalOrders"`
	NewOrders     int `json:"newOrders"`
	Orders24h     int `json:"orders24h"`
	TotalProducts int `json:"totalProducts"`
}

func (s *Service) DashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	unviewed, err := s.orders.ListUnviewed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unviewed orders: %w", err)
	}
	last24h, err := s.orders.ListSince(ctx, s.now().UTC().Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	return &DashboardMetrics{
		TotalOrders:   len(all),
		NewOrders:     len(unviewed),
		Orders24h:     len(last24h),
		TotalProducts: productCount,
	}, nil
}

// SalesPoint is one calendar-day bucket of the sales evolution series.
type SalesPoint struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Orders  int       `json:"orders"`
	Revenue int64     `json:"revenue"`
}

// SalesEvolution buckets order count and revenue per UTC calendar day over
// the trailing window. The series has exactly days entries ending today,
// contiguous and zero-filled for days without orders.
func (s *Service) SalesEvolution(ctx context.Context, days int) ([]SalesPoint, error) {
	if days <= 0 {
		return []SalesPoint{}, nil
	}

	today := truncateDay(s.now().UTC())
	start := today.AddDate(0, 0, -(days - 1))

	points := make([]SalesPoint, days)
	index := make(map[time.Time]*SalesPoint, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		points[i] = SalesPoint{Date: day, Label: day.Format("02/01")}
		index[day] = &points[i]
	}

	orders, err := s.orders.ListSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("list orders in window: %w", err)
	}
	for _, o := range orders {
		day := truncateDay(o.CreatedAt.UTC())
		if p, ok := index[day]; ok {
			p.Orders++
			p.Revenue += o.Total
		}
	}

	return points, nil
}

// Metric compares one value across the current and the previous period.
// Delta is a percentage; a zero previous period maps to +100% when the
// current one is positive and to 0% when both are zero.
type Metric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Delta    float64 `json:"delta"`
}

type PeriodComparison struct {
	Revenue      Metric `json:"revenue"`
	OrderCount   Metric `json:"orderCount"`
	AverageOrder Metric `json:"averageOrder"`
}

// PeriodComparison compares the trailing days window with the equal-length
// window immediately preceding it.
func (s *Service) PeriodComparison(ctx context.Context, days int) (*PeriodComparison, error) {
	now := s.now().UTC()
	currentStart := now.Add(-time.Duration(days) * 24 * time.Hour)
	previousStart := currentStart.Add(-time.Duration(days) * 24 * time.Hour)

	current, err := s.orders.ListSince(ctx, currentStart)
	if err != nil {
		return nil, fmt.Errorf("list current period: %w", err)
	}

	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var previous []order.Order
	for _, o := range all {
		created := o.CreatedAt.UTC()
		if !created.Before(previousStart) && created.Before(currentStart) {
			previous = append(previous, o)
		}
	}

	currentRevenue, previousRevenue := sumTotals(current), sumTotals(previous)
	currentCount, previousCount := float64(len(current)), float64(len(previous))

	currentAvg, previousAvg := 0.0, 0.0
	if currentCount > 0 {
		currentAvg = currentRevenue / currentCount
	}
	if previousCount > 0 {
		previousAvg = previousRevenue / previousCount
	}

	return &PeriodComparison{
		Revenue:      Metric{Current: currentRevenue, Previous: previousRevenue, Delta: deltaPct(currentRevenue, previousRevenue)},
		OrderCount:   Metric{Current: currentCount, Previous: previousCount, Delta: deltaPct(currentCount, previousCount)},
		AverageOrder: Metric{Current: currentAvg, Previous: previousAvg, Delta: deltaPct(currentAvg, previousAvg)},
	}, nil
}

type ProductSales struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// TopProducts ranks products by quantity ordered within the trailing window,
// descending, ties kept in first-encountered order, truncated to limit.
func (s *Service) TopProducts(ctx context.Context, limit, days int) ([]ProductSales, error) {
	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	orders, err := s.orders.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list orders in window: %w", err)
	}

	totals := make(map[string]*ProductSales)
	var firstSeen []string
	for _, o := range orders {
		for _, line := range o.Lines {
			ps, ok := totals[line.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: line.ProductID, ProductName: line.ProductName}
				totals[line.ProductID] = ps
				firstSeen = append(firstSeen, line.ProductID)
			}
			ps.Quantity += line.Quantity
		}
	}

	ranked := make([]ProductSales, 0, len(firstSeen))
	for _, id := range firstSeen {
		ranked = append(ranked, *totals[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

type StockAlerts struct {
	OutOfStock []catalog.Product `json:"outOfStock"`
	LowStock   []catalog.Product `json:"lowStock"`
}

// StockAlerts partitions at-risk products into out-of-stock (stock = 0) and
// low-stock (0 < stock ≤ threshold). The two sets are disjoint by construction.
func (s *Service) StockAlerts(ctx context.Context, threshold int) (*StockAlerts, error) {
	products, err := s.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}

	alerts := &StockAlerts{
		OutOfStock: []catalog.Product{},
		LowStock:   []catalog.Product{},
	}
	for _, p := range products {
		if p.Stock == 0 {
			alerts.OutOfStock = append(alerts.OutOfStock, p)
		} else {
			alerts.LowStock = append(alerts.LowStock, p)
		}
	}
	return alerts, nil
}

// OrdersByStatus counts all orders per status.
func (s *Service) OrdersByStatus(ctx context.Context) (map[order.Status]int, error) {
	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	stats := map[order.Status]int{
		order.StatusInProgress: 0,
		order.StatusDelivered:  0,
		order.StatusCancelled:  0,
	}
	for _, o := range all {
		stats[o.Status]++
	}
	return stats, nil
}

type Activity struct {
	OrderID    string       `json:"orderId"`
	CustomerID string       `json:"customerId"`
	Total      int64        `json:"total"`
	Status     order.Status `json:"status"`
	Viewed     bool         `json:"viewed"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// RecentActivity returns the most recent orders as a flat activity feed.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	all, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}

	activities := make([]Activity, 0, len(all))
	for _, o := range all {
		activities = append(activities, Activity{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			Total:      o.Total,
			Status:     o.Status,
			Viewed:     o.Viewed,
			CreatedAt:  o.CreatedAt,
		})
	}
	return activities, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sumTotals(orders []order.Order) float64 {
	var sum int64
	for _, o := range orders {
		sum += o.Total
	}
	return float64(sum)
}

func deltaPct(current, previous float64) float64 {
	switch {
	case previous > 0:
		return (current - previous) / previous * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}
