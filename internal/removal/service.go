package removal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/storetrack/storetrack/internal/shared"
)

// CacheInvalidator bumps the reports cache version after a mutation.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Auditor records audit trail entries.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ServiceConfig tunes the depletion policy.
//
// AllowShortfall keeps the pre-ledger-rework behaviour: when eligible stock
// cannot cover the request, every eligible lot is drained and the ledger is
// still debited by the full requested amount. The default is strict: the
// request fails and nothing is mutated.
type ServiceConfig struct {
	AllowShortfall bool
}

type Service struct {
	logger  *slog.Logger
	repo    Repository
	cfg     ServiceConfig
	cache   CacheInvalidator
	auditor Auditor
	now     func() time.Time
}

func NewService(logger *slog.Logger, repo Repository, cfg ServiceConfig, cache CacheInvalidator, auditor Auditor) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		cfg:     cfg,
		cache:   cache,
		auditor: auditor,
		now:     time.Now,
	}
}

// Remove depletes stock for one product under the given reason. Lots are
// drawn down first-expired-first-out; for ReasonExpired only lots whose
// expiry date lies strictly before today qualify. One record is written per
// lot touched and the ledger row is debited in the same transaction.
func (s *Service) Remove(ctx context.Context, reason Reason, input Input) (Result, error) {
	if input.Quantity <= 0 {
		return Result{}, ErrInvalidQuantity
	}
	if !reason.Valid() {
		return Result{}, ErrInvalidReason
	}
	input.ProductCode = strings.TrimSpace(input.ProductCode)
	if input.ProductCode == "" {
		return Result{}, fmt.Errorf("%w: product code required", shared.ErrInvalidArgument)
	}

	exists, err := s.repo.ProductExists(ctx, input.ProductCode)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return Result{}, ErrProductNotFound
	}

	var cutoff *time.Time
	removedAt := s.now()
	if reason == ReasonExpired {
		today := startOfDay(removedAt)
		cutoff = &today
	}

	var result Result
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ledger, err := tx.GetLedgerForUpdate(ctx, input.ProductCode)
		if err != nil {
			return err
		}

		lots, err := tx.SelectLotsForUpdate(ctx, input.ProductCode, cutoff)
		if err != nil {
			return err
		}

		var eligible int64
		for _, lot := range lots {
			eligible += lot.Remaining
		}
		if eligible < input.Quantity && !s.cfg.AllowShortfall {
			return fmt.Errorf("%w: requested %d, eligible %d", ErrInsufficientStock, input.Quantity, eligible)
		}

		result = Result{
			ProductCode:  input.ProductCode,
			Reason:       reason,
			RequestedQty: input.Quantity,
		}

		still := input.Quantity
		for _, lot := range lots {
			if still == 0 {
				break
			}
			take := lot.Remaining
			if take > still {
				take = still
			}

			record, err := tx.InsertRecord(ctx, Record{
				ProductCode: input.ProductCode,
				LotID:       lot.ID,
				Reason:      reason,
				Quantity:    take,
				ExpiryDate:  lot.ExpiryDate,
				Remarks:     input.Remarks,
				RemovedAt:   removedAt,
			})
			if err != nil {
				return err
			}
			if err := tx.UpdateLotRemaining(ctx, lot.ID, lot.Remaining-take); err != nil {
				return err
			}

			result.Records = append(result.Records, record)
			result.AllocatedQty += take
			still -= take
		}

		// The ledger is debited by the full requested amount. In strict
		// mode allocation always covers it; in shortfall mode the ledger
		// may drop below the sum of lot remainders.
		result.TotalQuantity = ledger.TotalStock - input.Quantity
		return tx.SetLedgerTotal(ctx, input.ProductCode, result.TotalQuantity)
	})
	if err != nil {
		return Result{}, err
	}

	s.audit(ctx, reason, input, result)
	s.bumpCache(ctx)
	return result, nil
}

// ListTracked returns the removal history for one reason, newest first.
func (s *Service) ListTracked(ctx context.Context, reason Reason) ([]TrackedRecord, error) {
	if !reason.Valid() {
		return nil, ErrInvalidReason
	}
	return s.repo.ListTracked(ctx, reason)
}

// ListExpiredInStock returns expired lots that still carry stock, in the
// order depletion would consume them.
func (s *Service) ListExpiredInStock(ctx context.Context) ([]ExpiredLot, error) {
	return s.repo.ListExpiredInStock(ctx, startOfDay(s.now()))
}

func (s *Service) audit(ctx context.Context, reason Reason, input Input, result Result) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Record(ctx, shared.AuditLog{
		Action:   "stock.remove",
		Entity:   "product",
		EntityID: input.ProductCode,
		Meta: map[string]any{
			"reason":    string(reason),
			"requested": result.RequestedQty,
			"allocated": result.AllocatedQty,
		},
		At: s.now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", "action", "stock.remove", "error", err)
	}
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump failed", "error", err)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
