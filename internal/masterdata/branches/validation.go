package branches

import (
	"fmt"
	"strings"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

func (s *Service) validate(b Branch) error {
	if strings.TrimSpace(b.BranchCode) == "" {
		return fmt.Errorf("%w: branch code is required", shared.ErrValidation)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: branch name is required", shared.ErrValidation)
	}
	return nil
}
