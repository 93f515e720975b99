package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/storetrack/storetrack/internal/reports"
)

// ReportWarmer pre-loads the dashboard and daily report into the cache so the
// first request of the day is served warm.
type ReportWarmer struct {
	logger  *slog.Logger
	reports *reports.Service
}

func NewReportWarmer(logger *slog.Logger, reportsSvc *reports.Service) *ReportWarmer {
	return &ReportWarmer{logger: logger, reports: reportsSvc}
}

// Handle processes TaskCacheWarmup tasks.
func (w *ReportWarmer) Handle(ctx context.Context, _ *asynq.Task) error {
	if _, err := w.reports.Dashboard(ctx); err != nil {
		return err
	}
	if _, err := w.reports.DailyReport(ctx); err != nil {
		return err
	}
	w.logger.Info("report cache warmed")
	return nil
}
