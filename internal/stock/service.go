package stock

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TotalStock reports the ledger total for a product. A product with no
// ledger row reports zero rather than an error.
func (s *Service) TotalStock(ctx context.Context, productCode string) (int64, error) {
	total, err := s.repo.TotalByProductCode(ctx, productCode)
	if errors.Is(err, ErrLedgerNotFound) {
		return 0, nil
	}
	return total, err
}

// Ledger returns every ledger row, ordered by product code.
func (s *Service) Ledger(ctx context.Context) ([]LedgerEntry, error) {
	return s.repo.List(ctx)
}
