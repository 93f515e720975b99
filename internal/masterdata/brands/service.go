package brands

import (
	"context"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Brand, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Brand, error) {
	if id <= 0 {
		return Brand{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, brand Brand) (Brand, error) {
	if err := s.validate(brand); err != nil {
		return Brand{}, err
	}
	return s.repo.Create(ctx, brand)
}

func (s *Service) Update(ctx context.Context, id int64, brand Brand) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.validate(brand); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, brand)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
