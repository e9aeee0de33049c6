package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/catalog"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
)

type fakeOrderSource struct {
	orders []order.Order
}

func (f *fakeOrderSource) ListAll(_ context.Context) ([]order.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderSource) ListUnviewed(_ context.Context) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		if !o.Viewed {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderSource) ListSince(_ context.Context, since time.Time) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeProductSource struct {
	products []catalog.Product
}

func (f *fakeProductSource) List(_ context.Context, _ string, _ catalog.Category) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeProductSource) ListLowStock(_ context.Context, threshold int) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductSource) Count(_ context.Context) (int, error) {
	return len(f.products), nil
}

type fakeCustomerSource struct {
	customers []customer.Customer
}

func (f *fakeCustomerSource) List(_ context.Context) ([]customer.Customer, error) {
	return f.customers, nil
}

var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func newTestService(orders []order.Order, products []catalog.Product, customers []customer.Customer) *Service {
	svc := NewService(
		&fakeOrderSource{orders: orders},
		&fakeProductSource{products: products},
		&fakeCustomerSource{customers: customers},
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestSalesEvolution_ZeroFilledContiguousWindow(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", Total: 3000, CreatedAt: testNow.Add(-2 * 24 * time.Hour)},
		{ID: "o2", Total: 1500, CreatedAt: testNow.Add(-2 * 24 * time.Hour)},
		{ID: "o3", Total: 500, CreatedAt: testNow},
	}
	svc := newTestService(orders, nil, nil)

	points, err := svc.SalesEvolution(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	// contiguous daily buckets ending today
	for i, p := range points {
		expected := time.Date(2025, 6, 9+i, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, p.Date)
	}
	assert.Equal(t, "09/06", points[0].Label)
	assert.Equal(t, "15/06", points[6].Label)

	assert.Equal(t, 2, points[4].Orders)
	assert.Equal(t, int64(4500), points[4].Revenue)
	assert.Equal(t, 1, points[6].Orders)
	assert.Equal(t, int64(500), points[6].Revenue)

	for _, i := range []int{0, 1, 2, 3, 5} {
		assert.Zero(t, points[i].Orders)
		assert.Zero(t, points[i].Revenue)
	}
}

func TestSalesEvolution_NoOrders(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	points, err := svc.SalesEvolution(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)
	for _, p := range points {
		assert.Zero(t, p.Orders)
		assert.Zero(t, p.Revenue)
	}
}

func TestPeriodComparison_Deltas(t *testing.T) {
	orders := []order.Order{
		// current window (last 7 days)
		{ID: "c1", Total: 6000, CreatedAt: testNow.Add(-24 * time.Hour)},
		{ID: "c2", Total: 3000, CreatedAt: testNow.Add(-48 * time.Hour)},
		// previous window
		{ID: "p1", Total: 4500, CreatedAt: testNow.Add(-9 * 24 * time.Hour)},
	}
	svc := newTestService(orders, nil, nil)

	cmp, err := svc.PeriodComparison(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 9000.0, cmp.Revenue.Current)
	assert.Equal(t, 4500.0, cmp.Revenue.Previous)
	assert.Equal(t, 100.0, cmp.Revenue.Delta)

	assert.Equal(t, 2.0, cmp.OrderCount.Current)
	assert.Equal(t, 1.0, cmp.OrderCount.Previous)
	assert.Equal(t, 100.0, cmp.OrderCount.Delta)

	assert.Equal(t, 4500.0, cmp.AverageOrder.Current)
	assert.Equal(t, 4500.0, cmp.AverageOrder.Previous)
	assert.Equal(t, 0.0, cmp.AverageOrder.Delta)
}

func TestPeriodComparison_EmptyPreviousPeriod(t *testing.T) {
	orders := []order.Order{
		{ID: "c1", Total: 2000, CreatedAt: testNow.Add(-24 * time.Hour)},
	}
	svc := newTestService(orders, nil, nil)

	cmp, err := svc.PeriodComparison(context.Background(), 7)
	require.NoError(t, err)

	// positive current over an empty previous period reads as +100%
	assert.Equal(t, 100.0, cmp.Revenue.Delta)
	assert.Equal(t, 100.0, cmp.OrderCount.Delta)
}

func TestPeriodComparison_BothPeriodsEmpty(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	cmp, err := svc.PeriodComparison(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cmp.Revenue.Delta)
	assert.Equal(t, 0.0, cmp.OrderCount.Delta)
	assert.Equal(t, 0.0, cmp.AverageOrder.Delta)
}

func TestDeltaPct(t *testing.T) {
	assert.Equal(t, 50.0, deltaPct(150, 100))
	assert.Equal(t, -25.0, deltaPct(75, 100))
	assert.Equal(t, 100.0, deltaPct(10, 0))
	assert.Equal(t, 0.0, deltaPct(0, 0))
	assert.Equal(t, -100.0, deltaPct(0, 100))
}

func TestTopProducts_RanksByQuantityWithStableTies(t *testing.T) {
	orders := []order.Order{
		{
			ID: "o1", CreatedAt: testNow.Add(-24 * time.Hour),
			Lines: []order.Line{
				{ProductID: "a", ProductName: "Ambre", Quantity: 2},
				{ProductID: "b", ProductName: "Bois", Quantity: 5},
			},
		},
		{
			ID: "o2", CreatedAt: testNow.Add(-48 * time.Hour),
			Lines: []order.Line{
				{ProductID: "a", ProductName: "Ambre", Quantity: 1},
				{ProductID: "c", ProductName: "Cèdre", Quantity: 3},
			},
		},
	}
	svc := newTestService(orders, nil, nil)

	top, err := svc.TopProducts(context.Background(), 5, 30)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, "b", top[0].ProductID)
	assert.Equal(t, 5, top[0].Quantity)
	// a and c are tied at 3; a was seen first and must stay first
	assert.Equal(t, "a", top[1].ProductID)
	assert.Equal(t, 3, top[1].Quantity)
	assert.Equal(t, "c", top[2].ProductID)
}

func TestTopProducts_TruncatesToLimit(t *testing.T) {
	orders := []order.Order{
		{
			ID: "o1", CreatedAt: testNow,
			Lines: []order.Line{
				{ProductID: "a", ProductName: "A", Quantity: 3},
				{ProductID: "b", ProductName: "B", Quantity: 2},
				{ProductID: "c", ProductName: "C", Quantity: 1},
			},
		},
	}
	svc := newTestService(orders, nil, nil)

	top, err := svc.TopProducts(context.Background(), 2, 30)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].ProductID)
	assert.Equal(t, "b", top[1].ProductID)
}

func TestStockAlerts_PartitionsAreDisjoint(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", Name: "Épuisé", Stock: 0},
		{ID: "p2", Name: "Faible", Stock: 2},
		{ID: "p3", Name: "Limite", Stock: 5},
		{ID: "p4", Name: "Plein", Stock: 50},
	}
	svc := newTestService(nil, products, nil)

	alerts, err := svc.StockAlerts(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, alerts.OutOfStock, 1)
	assert.Equal(t, "p1", alerts.OutOfStock[0].ID)

	require.Len(t, alerts.LowStock, 2)
	assert.Equal(t, "p2", alerts.LowStock[0].ID)
	assert.Equal(t, "p3", alerts.LowStock[1].ID)

	for _, out := range alerts.OutOfStock {
		for _, low := range alerts.LowStock {
			assert.NotEqual(t, out.ID, low.ID)
		}
	}
}

func TestStockAlerts_EmptyCatalog(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	alerts, err := svc.StockAlerts(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, alerts.OutOfStock)
	assert.NotNil(t, alerts.LowStock)
	assert.Empty(t, alerts.OutOfStock)
	assert.Empty(t, alerts.LowStock)
}

func TestDashboardMetrics(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", Viewed: false, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "o2", Viewed: true, CreatedAt: testNow.Add(-3 * 24 * time.Hour)},
		{ID: "o3", Viewed: false, CreatedAt: testNow.Add(-10 * 24 * time.Hour)},
	}
	products := []catalog.Product{{ID: "p1"}, {ID: "p2"}}
	svc := newTestService(orders, products, nil)

	m, err := svc.DashboardMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, m.TotalOrders)
	assert.Equal(t, 2, m.NewOrders)
	assert.Equal(t, 1, m.Orders24h)
	assert.Equal(t, 2, m.TotalProducts)
}

func TestOrdersByStatus_AllKeysPresent(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", Status: order.StatusInProgress},
		{ID: "o2", Status: order.StatusInProgress},
		{ID: "o3", Status: order.StatusDelivered},
	}
	svc := newTestService(orders, nil, nil)

	stats, err := svc.OrdersByStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats[order.StatusInProgress])
	assert.Equal(t, 1, stats[order.StatusDelivered])
	counted, ok := stats[order.StatusCancelled]
	assert.True(t, ok, "zero statuses must still be present")
	assert.Equal(t, 0, counted)
}

func TestRecentActivity_Limit(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", Total: 100, Status: order.StatusInProgress, CreatedAt: testNow},
		{ID: "o2", Total: 200, Status: order.StatusDelivered, CreatedAt: testNow.Add(-time.Hour)},
		{ID: "o3", Total: 300, Status: order.StatusInProgress, CreatedAt: testNow.Add(-2 * time.Hour)},
	}
	svc := newTestService(orders, nil, nil)

	activity, err := svc.RecentActivity(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "o1", activity[0].OrderID)
	assert.Equal(t, "o2", activity[1].OrderID)
}
