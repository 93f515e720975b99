package categories

import (
	"fmt"
	"strings"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

func (s *Service) validate(c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	return nil
}
