package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/storetrack/storetrack/internal/shared"
)

type fakeRepo struct {
	in  []TransactionRow
	out []OutboundRow

	dashboard      Dashboard
	dashboardCalls int
}

func (f *fakeRepo) TransactionIn(_ context.Context) ([]TransactionRow, error) {
	return f.in, nil
}

func (f *fakeRepo) TransactionOut(_ context.Context) ([]TransactionRow, error) {
	return f.in, nil
}

func (f *fakeRepo) Sales(_ context.Context, start, end time.Time) ([]TransactionRow, decimal.Decimal, error) {
	total := decimal.Zero
	var rows []TransactionRow
	for _, row := range f.in {
		if row.InwardStockDate.Before(start) || row.InwardStockDate.After(end) {
			continue
		}
		rows = append(rows, row)
		total = total.Add(row.Total)
	}
	return rows, total, nil
}

func (f *fakeRepo) OutboundByDate(_ context.Context, _ time.Time) ([]OutboundRow, error) {
	return f.out, nil
}

func (f *fakeRepo) DashboardCounts(_ context.Context) (Dashboard, error) {
	f.dashboardCalls++
	return f.dashboard, nil
}

func (f *fakeRepo) Inventory(_ context.Context, _ bool, _ time.Time) ([]InventoryRow, error) {
	return nil, nil
}

func newCacheForTest(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func row(invoice string, day time.Time, total int64) TransactionRow {
	return TransactionRow{
		InvoiceNumber:   invoice,
		SupplierName:    "Acme Foods",
		InwardStockDate: day,
		ProductCode:     "SKU-1",
		ProductName:     "Almond Milk",
		Quantity:        2,
		UnitPrice:       decimal.NewFromInt(total / 2),
		Total:           decimal.NewFromInt(total),
	}
}

func TestSalesReportSumsRange(t *testing.T) {
	repo := &fakeRepo{in: []TransactionRow{
		row("INV-1", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), 30),
		row("INV-2", time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), 20),
		row("INV-3", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 99),
	}}
	svc := NewService(repo, newCacheForTest(t))

	report, err := svc.SalesReport(context.Background(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, report.Transactions, 2)
	require.True(t, report.TotalSales.Equal(decimal.NewFromInt(50)))
}

func TestSalesReportRequiresRange(t *testing.T) {
	svc := NewService(&fakeRepo{}, newCacheForTest(t))

	_, err := svc.SalesReport(context.Background(), "", "2026-08-31")
	require.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = svc.SalesReport(context.Background(), "2026-08-01", "")
	require.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = svc.SalesReport(context.Background(), "2026-08-31", "2026-08-01")
	require.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestTransactionReportUnknownType(t *testing.T) {
	svc := NewService(&fakeRepo{}, newCacheForTest(t))

	_, err := svc.TransactionReport(context.Background(), "weekly")
	require.ErrorIs(t, err, ErrUnknownReportType)
}

func TestDashboardServedFromCache(t *testing.T) {
	repo := &fakeRepo{dashboard: Dashboard{PendingInbound: 3, TotalRevenue: decimal.NewFromInt(100)}}
	svc := NewService(repo, newCacheForTest(t))

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), first.PendingInbound)

	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.True(t, second.TotalRevenue.Equal(decimal.NewFromInt(100)))

	require.Equal(t, 1, repo.dashboardCalls)
}

func TestDashboardReloadsAfterBump(t *testing.T) {
	repo := &fakeRepo{dashboard: Dashboard{PendingInbound: 3}}
	cache := newCacheForTest(t)
	svc := NewService(repo, cache)

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.Bump(context.Background()))

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.dashboardCalls)
}

func TestDailyReportCombinesFigures(t *testing.T) {
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		in: []TransactionRow{row("INV-1", today, 40)},
		out: []OutboundRow{{
			InvoiceNumber: "OUT-1",
			BranchName:    "Downtown",
			OutwardDate:   today,
			ProductCode:   "SKU-1",
			QtyRequested:  5,
			Total:         decimal.NewFromInt(10),
		}},
	}
	svc := NewService(repo, newCacheForTest(t))
	svc.now = func() time.Time { return today.Add(9 * time.Hour) }

	report, err := svc.DailyReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026-08-15", report.Date)
	require.Len(t, report.Inward, 1)
	require.Len(t, report.Outward, 1)
	require.True(t, report.TotalSales.Equal(decimal.NewFromInt(40)))
}
