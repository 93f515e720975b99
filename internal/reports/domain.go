// Package reports builds read-only projections over transactions and stock:
// inward/outward registers, sales totals, the dashboard and the inventory
// snapshot, plus a spreadsheet export of the registers.
package reports

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownReportType = errors.New("unknown report type")

// Report types served by GET /reports/{type}.
const (
	TypeTransactionIn  = "transaction-in"
	TypeTransactionOut = "transaction-out"
	TypeSales          = "sales"
	TypeDaily          = "daily"
)

// TransactionRow is one inbound line flattened for reporting.
type TransactionRow struct {
	InvoiceNumber   string          `json:"invoice_number"`
	SupplierName    string          `json:"supplier_name"`
	InwardStockDate time.Time       `json:"inward_stock_date"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Total           decimal.Decimal `json:"total"`
}

// OutboundRow is one branch transfer line flattened for reporting.
type OutboundRow struct {
	InvoiceNumber string          `json:"invoice_number"`
	BranchName    string          `json:"branch_name"`
	OutwardDate   time.Time       `json:"outward_date"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	QtyRequested  int64           `json:"qty_requested"`
	Total         decimal.Decimal `json:"total"`
}

// SalesReport sums delivered transaction lines over a date range.
type SalesReport struct {
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	TotalSales   decimal.Decimal  `json:"total_sales"`
	Transactions []TransactionRow `json:"transactions"`
}

// DailyReport combines today's inward, outward and sales figures.
type DailyReport struct {
	Date       string           `json:"date"`
	Inward     []TransactionRow `json:"inward"`
	Outward    []OutboundRow    `json:"outward"`
	TotalSales decimal.Decimal  `json:"total_sales"`
}

// Dashboard holds the headline counters shown on the landing page.
type Dashboard struct {
	PendingInbound   int64           `json:"pending_inbound"`
	DeliveredInbound int64           `json:"delivered_inbound"`
	OutboundCount    int64           `json:"outbound_count"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// InventoryRow is one undelivered lot with its masterdata resolved.
type InventoryRow struct {
	InvoiceNumber string     `json:"invoice_number"`
	SupplierName  string     `json:"supplier_name"`
	ProductCode   string     `json:"product_code"`
	ProductName   string     `json:"product_name"`
	CategoryName  string     `json:"category_name"`
	BrandName     string     `json:"brand_name"`
	Quantity      int64      `json:"quantity"`
	Remaining     int64      `json:"remaining_quantity"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}
