// Package transactions records inbound purchases from suppliers and outbound
// transfers to branches. Inbound lines double as stock lots: their remaining
// quantity is what the depletion flows draw down.
package transactions

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrDuplicateInvoice = errors.New("invoice number already exists")
	ErrNoLines          = errors.New("transaction requires at least one line")
)

// InboundTransaction is a supplier delivery. IsDelivered marks the goods as
// received at the warehouse.
type InboundTransaction struct {
	ID              int64         `json:"id"`
	InvoiceNumber   string        `json:"invoice_number"`
	SupplierID      int64         `json:"supplier_id"`
	InwardStockDate time.Time     `json:"inward_stock_date"`
	DeliveryDate    *time.Time    `json:"delivery_date,omitempty"`
	Remarks         string        `json:"remarks,omitempty"`
	IsDelivered     bool          `json:"is_delivered"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Lines           []InboundLine `json:"lines"`
}

// InboundLine is one lot of a product within an inbound transaction.
// RemainingQuantity starts equal to Quantity and only ever decreases.
type InboundLine struct {
	ID                int64           `json:"id"`
	TransactionID     int64           `json:"transaction_id"`
	ProductCode       string          `json:"product_code"`
	Quantity          int64           `json:"quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Total             decimal.Decimal `json:"total"`
	ManufacturingDate *time.Time      `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	DeliveryDate      *time.Time      `json:"delivery_date,omitempty"`
}

// OutboundTransaction is a transfer of goods to a branch.
type OutboundTransaction struct {
	ID            int64          `json:"id"`
	InvoiceNumber string         `json:"invoice_number"`
	BranchCode    string         `json:"branch_code"`
	OutwardDate   time.Time      `json:"outward_date"`
	Remarks       string         `json:"remarks,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Lines         []OutboundLine `json:"lines"`
}

// OutboundLine is one requested product on a branch transfer.
type OutboundLine struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transaction_id"`
	ProductCode   string          `json:"product_code"`
	QtyRequested  int64           `json:"qty_requested"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
}
