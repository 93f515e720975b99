package shared

import (
	"fmt"

	"github.com/storetrack/storetrack/internal/platform/httpx"
)

// The masterdata packages share the httpx sentinels so their handlers can
// delegate error mapping to httpx.RespondError.
var (
	ErrNotFound      = httpx.ErrNotFound
	ErrDuplicate     = httpx.ErrDuplicate
	ErrValidation    = httpx.ErrValidation
	ErrInvalidID     = fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	ErrRequiredField = fmt.Errorf("%w: required field missing", httpx.ErrValidation)
)
