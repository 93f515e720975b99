package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/storetrack/storetrack/internal/shared"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// TransactionReport serves GET /reports/{type} for the register types.
func (s *Service) TransactionReport(ctx context.Context, reportType string) ([]TransactionRow, error) {
	switch reportType {
	case TypeTransactionIn:
		return s.repo.TransactionIn(ctx)
	case TypeTransactionOut:
		return s.repo.TransactionOut(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReportType, reportType)
	}
}

// SalesReport sums delivered transaction lines between start and end. Both
// bounds are required.
func (s *Service) SalesReport(ctx context.Context, startDate, endDate string) (SalesReport, error) {
	if startDate == "" || endDate == "" {
		return SalesReport{}, fmt.Errorf("%w: start_date and end_date are required", shared.ErrInvalidArgument)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return SalesReport{}, fmt.Errorf("%w: invalid start_date", shared.ErrInvalidArgument)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return SalesReport{}, fmt.Errorf("%w: invalid end_date", shared.ErrInvalidArgument)
	}
	if end.Before(start) {
		return SalesReport{}, fmt.Errorf("%w: end_date precedes start_date", shared.ErrInvalidArgument)
	}

	rows, total, err := s.repo.Sales(ctx, start, end)
	if err != nil {
		return SalesReport{}, err
	}
	return SalesReport{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalSales:   total,
		Transactions: rows,
	}, nil
}

// DailyReport assembles today's inward, outward and sales figures. The three
// projections load concurrently and the result is cached until the next
// mutation or day change.
func (s *Service) DailyReport(ctx context.Context) (DailyReport, error) {
	today := startOfDay(s.now())
	day := today.Format(dateLayout)

	key, err := s.cache.BuildKey(ctx, keyDaily(day))
	if err != nil {
		return DailyReport{}, err
	}

	var report DailyReport
	loader := func(ctx context.Context) (interface{}, error) {
		result := DailyReport{Date: day, TotalSales: decimal.Zero}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			rows, total, err := s.repo.Sales(gctx, today, today)
			if err != nil {
				return err
			}
			result.Inward = rows
			result.TotalSales = total
			return nil
		})
		g.Go(func() error {
			rows, err := s.repo.OutboundByDate(gctx, today)
			if err != nil {
				return err
			}
			result.Outward = rows
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return DailyReport{}, err
	}
	return report, nil
}

// Dashboard returns the headline counters, served from cache when warm.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, keyDashboard())
	if err != nil {
		return Dashboard{}, err
	}

	var dashboard Dashboard
	loader := func(ctx context.Context) (interface{}, error) {
		return s.repo.DashboardCounts(ctx)
	}
	if err := s.cache.FetchJSON(ctx, key, &dashboard, loader); err != nil {
		return Dashboard{}, err
	}
	return dashboard, nil
}

// Inventory lists undelivered lots. With exceededOnly, only lots whose
// expected delivery date has already passed are returned.
func (s *Service) Inventory(ctx context.Context, exceededOnly bool) ([]InventoryRow, error) {
	return s.repo.Inventory(ctx, exceededOnly, startOfDay(s.now()))
}

// ExportRows gathers both registers for the spreadsheet export.
func (s *Service) ExportRows(ctx context.Context) ([]TransactionRow, []OutboundRow, error) {
	var (
		in  []TransactionRow
		out []OutboundRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.TransactionIn(gctx)
		if err != nil {
			return err
		}
		in = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.repo.OutboundByDate(gctx, startOfDay(s.now()))
		if err != nil {
			return err
		}
		out = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
