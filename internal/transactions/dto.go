package transactions

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// dateLayout is the wire format for all transaction dates.
const dateLayout = "2006-01-02"

type CreateInboundRequest struct {
	InvoiceNumber   string                     `json:"invoice_number"`
	SupplierID      int64                      `json:"supplier_id" validate:"required,gt=0"`
	InwardStockDate string                     `json:"inward_stock_date" validate:"required"`
	DeliveryDate    string                     `json:"delivery_date"`
	Remarks         string                     `json:"remarks"`
	Lines           []CreateInboundLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type CreateInboundLineRequest struct {
	ProductCode       string          `json:"product_code" validate:"required"`
	Quantity          int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ManufacturingDate string          `json:"manufacturing_date"`
	ExpiryDate        string          `json:"expiry_date"`
	DeliveryDate      string          `json:"delivery_date"`
}

type CreateOutboundRequest struct {
	InvoiceNumber string                      `json:"invoice_number"`
	BranchCode    string                      `json:"branch_code" validate:"required"`
	OutwardDate   string                      `json:"outward_date" validate:"required"`
	Remarks       string                      `json:"remarks"`
	Lines         []CreateOutboundLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type CreateOutboundLineRequest struct {
	ProductCode  string          `json:"product_code" validate:"required"`
	QtyRequested int64           `json:"qty_requested" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
