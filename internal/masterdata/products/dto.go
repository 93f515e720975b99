package products

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// CreateRequest carries a new product. Code and Barcode are optional;
// blank values are generated server side.
type CreateRequest struct {
	Code       string          `json:"code"`
	Barcode    string          `json:"barcode"`
	Name       string          `json:"name" validate:"required"`
	CategoryID int64           `json:"category_id" validate:"required,gt=0"`
	BrandID    int64           `json:"brand_id" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// UpdateRequest carries mutable product fields. Code and barcode in the
// payload are ignored.
type UpdateRequest struct {
	Name       string          `json:"name" validate:"required"`
	CategoryID int64           `json:"category_id" validate:"required,gt=0"`
	BrandID    int64           `json:"brand_id" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}
