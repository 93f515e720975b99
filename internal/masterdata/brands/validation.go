package brands

import (
	"fmt"
	"strings"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

func (s *Service) validate(c Brand) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: brand name is required", shared.ErrValidation)
	}
	return nil
}
