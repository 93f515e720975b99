package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/storetrack/storetrack/internal/removal"
)

// ExpiryScanner surfaces expired lots that still carry stock so the
// warehouse crew can pull them next morning.
type ExpiryScanner struct {
	logger  *slog.Logger
	removal *removal.Service
}

func NewExpiryScanner(logger *slog.Logger, removalSvc *removal.Service) *ExpiryScanner {
	return &ExpiryScanner{logger: logger, removal: removalSvc}
}

// Handle processes TaskExpiryScan tasks.
func (s *ExpiryScanner) Handle(ctx context.Context, _ *asynq.Task) error {
	lots, err := s.removal.ListExpiredInStock(ctx)
	if err != nil {
		return err
	}

	var units int64
	for _, lot := range lots {
		units += lot.Remaining
	}

	s.logger.Info("expiry scan finished",
		slog.Int("expired_lots", len(lots)),
		slog.Int64("expired_units", units))
	return nil
}
