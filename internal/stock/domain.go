// Package stock owns the per-product stock ledger. The ledger holds one row
// per product code with the current total on hand; transaction and removal
// flows mutate it inside their own database transactions.
package stock

import (
	"errors"
	"time"
)

// ErrLedgerNotFound is returned when a product has no ledger row yet.
var ErrLedgerNotFound = errors.New("stock ledger entry not found")

// LedgerEntry is the running stock total for one product.
type LedgerEntry struct {
	ID          int64     `json:"id"`
	ProductCode string    `json:"product_code"`
	TotalStock  int64     `json:"total_stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}
