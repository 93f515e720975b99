package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry tracked across inbound and outbound transactions.
// Code and Barcode are immutable once the product is created.
type Product struct {
	ID         int64           `json:"id"`
	Code       string          `json:"code"`
	Barcode    string          `json:"barcode"`
	Name       string          `json:"name"`
	CategoryID int64           `json:"category_id"`
	BrandID    int64           `json:"brand_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ListItem is the list projection with category and brand names resolved.
type ListItem struct {
	Product
	CategoryName string `json:"category_name"`
	BrandName    string `json:"brand_name"`
}
