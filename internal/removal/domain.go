// Package removal takes expired and defective goods out of stock. Depletion
// walks lots in first-expired-first-out order, writes one audit record per
// lot touched, and debits the stock ledger in the same database transaction.
package removal

import (
	"errors"
	"time"
)

// Reason classifies why stock was removed.
type Reason string

const (
	ReasonExpired   Reason = "EXPIRED"
	ReasonDefective Reason = "DEFECTIVE"
)

var (
	ErrInvalidQuantity   = errors.New("removal quantity must be positive")
	ErrInvalidReason     = errors.New("unknown removal reason")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient eligible stock")
)

// Valid reports whether the reason is one of the known values.
func (r Reason) Valid() bool {
	return r == ReasonExpired || r == ReasonDefective
}

// Record is one append-only removal entry, tied to the lot it drew from.
type Record struct {
	ID          int64      `json:"id"`
	ProductCode string     `json:"product_code"`
	LotID       int64      `json:"lot_id"`
	Reason      Reason     `json:"reason"`
	Quantity    int64      `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
	RemovedAt   time.Time  `json:"removed_at"`
}

// Lot is a depletable inbound line: what arrived and what is still on hand.
type Lot struct {
	ID           int64
	ProductCode  string
	Remaining    int64
	ExpiryDate   *time.Time
	DeliveryDate *time.Time
}

// Input describes one removal request.
type Input struct {
	ProductCode string `json:"product_code"`
	Quantity    int64  `json:"quantity"`
	Remarks     string `json:"remarks"`
}

// Result reports what a removal actually did. AllocatedQty can fall short of
// RequestedQty only when the service allows shortfalls.
type Result struct {
	ProductCode   string   `json:"product_code"`
	Reason        Reason   `json:"reason"`
	RequestedQty  int64    `json:"requested_qty"`
	AllocatedQty  int64    `json:"allocated_qty"`
	Records       []Record `json:"records"`
	TotalQuantity int64    `json:"total_quantity"`
}

// TrackedRecord is the reporting projection of a removal record.
type TrackedRecord struct {
	Record
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name"`
	BrandName    string `json:"brand_name"`
}

// ExpiredLot is an expired lot still carrying stock.
type ExpiredLot struct {
	LotID         int64      `json:"lot_id"`
	ProductCode   string     `json:"product_code"`
	ProductName   string     `json:"product_name"`
	Remaining     int64      `json:"remaining_quantity"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	InvoiceNumber string     `json:"invoice_number"`
}
