package products

import (
	"fmt"
	"strings"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

func (s *Service) validateCreate(req CreateRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", shared.ErrValidation)
	}
	return nil
}

func (s *Service) validateUpdate(req UpdateRequest) error {
	return s.validateCreate(CreateRequest{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		UnitPrice:  req.UnitPrice,
	})
}
