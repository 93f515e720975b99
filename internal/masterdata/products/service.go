package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]ListItem, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) GetByCode(ctx context.Context, code string) (Product, error) {
	if strings.TrimSpace(code) == "" {
		return Product{}, shared.ErrInvalidID
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Product, error) {
	if err := s.validateCreate(req); err != nil {
		return Product{}, err
	}

	product := Product{
		Code:       strings.TrimSpace(req.Code),
		Barcode:    strings.TrimSpace(req.Barcode),
		Name:       strings.TrimSpace(req.Name),
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		UnitPrice:  req.UnitPrice,
	}
	if product.Code == "" {
		product.Code = generateCode("P")
	}
	if product.Barcode == "" {
		product.Barcode = generateCode("B")
	}
	return s.repo.Create(ctx, product)
}

// UpdateByCode updates the mutable fields of a product. Code and barcode
// never change after creation.
func (s *Service) UpdateByCode(ctx context.Context, code string, req UpdateRequest) (Product, error) {
	if strings.TrimSpace(code) == "" {
		return Product{}, shared.ErrInvalidID
	}
	if err := s.validateUpdate(req); err != nil {
		return Product{}, err
	}

	product := Product{
		Name:       strings.TrimSpace(req.Name),
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		UnitPrice:  req.UnitPrice,
	}
	if err := s.repo.UpdateByCode(ctx, code, product); err != nil {
		return Product{}, err
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) DeleteByCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteByCode(ctx, code)
}

// SearchCodes returns up to ten product codes matching the given prefix.
func (s *Service) SearchCodes(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, shared.ErrRequiredField
	}
	return s.repo.SearchCodes(ctx, prefix)
}

func generateCode(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(id[:12])
}
