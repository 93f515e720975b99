package suppliers

import (
	"fmt"
	"strings"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", shared.ErrValidation)
	}
	if sup.Email != "" && !strings.Contains(sup.Email, "@") {
		return fmt.Errorf("%w: supplier email is invalid", shared.ErrValidation)
	}
	return nil
}
