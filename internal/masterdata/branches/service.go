package branches

import (
	"context"
	"strings"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Branch, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) GetByCode(ctx context.Context, code string) (Branch, error) {
	if strings.TrimSpace(code) == "" {
		return Branch{}, shared.ErrInvalidID
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) Create(ctx context.Context, branch Branch) (Branch, error) {
	if err := s.validate(branch); err != nil {
		return Branch{}, err
	}
	return s.repo.Create(ctx, branch)
}

func (s *Service) UpdateByCode(ctx context.Context, code string, branch Branch) error {
	if strings.TrimSpace(code) == "" {
		return shared.ErrInvalidID
	}
	if err := s.validate(branch); err != nil {
		return err
	}
	return s.repo.UpdateByCode(ctx, code, branch)
}

func (s *Service) DeleteByCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteByCode(ctx, code)
}
