package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	TransactionIn(ctx context.Context) ([]TransactionRow, error)
	TransactionOut(ctx context.Context) ([]TransactionRow, error)
	Sales(ctx context.Context, start, end time.Time) ([]TransactionRow, decimal.Decimal, error)
	OutboundByDate(ctx context.Context, day time.Time) ([]OutboundRow, error)
	DashboardCounts(ctx context.Context) (Dashboard, error)
	Inventory(ctx context.Context, exceededOnly bool, asOf time.Time) ([]InventoryRow, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const transactionRowColumns = `t.invoice_number, s.name, t.inward_stock_date, l.product_code, p.name, l.quantity, l.unit_price, l.total`

func (r *repository) transactionRows(ctx context.Context, query string, args ...interface{}) ([]TransactionRow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []TransactionRow
	for rows.Next() {
		var row TransactionRow
		if err := rows.Scan(&row.InvoiceNumber, &row.SupplierName, &row.InwardStockDate,
			&row.ProductCode, &row.ProductName, &row.Quantity, &row.UnitPrice, &row.Total); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// TransactionIn lists lines of inbound transactions still awaiting delivery.
func (r *repository) TransactionIn(ctx context.Context) ([]TransactionRow, error) {
	return r.transactionRows(ctx, `SELECT `+transactionRowColumns+`
		FROM inbound_transaction_lines l
		JOIN inbound_transactions t ON t.id = l.transaction_id
		JOIN suppliers s ON s.id = t.supplier_id
		JOIN products p ON p.code = l.product_code
		WHERE t.is_delivered = false
		ORDER BY t.inward_stock_date DESC, l.id`)
}

// TransactionOut lists lines of delivered inbound transactions.
func (r *repository) TransactionOut(ctx context.Context) ([]TransactionRow, error) {
	return r.transactionRows(ctx, `SELECT `+transactionRowColumns+`
		FROM inbound_transaction_lines l
		JOIN inbound_transactions t ON t.id = l.transaction_id
		JOIN suppliers s ON s.id = t.supplier_id
		JOIN products p ON p.code = l.product_code
		WHERE t.is_delivered = true
		ORDER BY t.inward_stock_date DESC, l.id`)
}

// Sales returns delivered transaction lines within the date range, with the
// grand total of their line totals.
func (r *repository) Sales(ctx context.Context, start, end time.Time) ([]TransactionRow, decimal.Decimal, error) {
	rows, err := r.transactionRows(ctx, `SELECT `+transactionRowColumns+`
		FROM inbound_transaction_lines l
		JOIN inbound_transactions t ON t.id = l.transaction_id
		JOIN suppliers s ON s.id = t.supplier_id
		JOIN products p ON p.code = l.product_code
		WHERE t.is_delivered = true AND t.inward_stock_date >= $1 AND t.inward_stock_date <= $2
		ORDER BY t.inward_stock_date, l.id`, start, end)
	if err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
	}
	return rows, total, nil
}

func (r *repository) OutboundByDate(ctx context.Context, day time.Time) ([]OutboundRow, error) {
	rows, err := r.db.Query(ctx, `SELECT t.invoice_number, b.name, t.outward_date, l.product_code, p.name, l.qty_requested, l.total
		FROM outbound_transaction_lines l
		JOIN outbound_transactions t ON t.id = l.transaction_id
		JOIN branches b ON b.branch_code = t.branch_code
		JOIN products p ON p.code = l.product_code
		WHERE t.outward_date = $1
		ORDER BY l.id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []OutboundRow
	for rows.Next() {
		var row OutboundRow
		if err := rows.Scan(&row.InvoiceNumber, &row.BranchName, &row.OutwardDate,
			&row.ProductCode, &row.ProductName, &row.QtyRequested, &row.Total); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *repository) DashboardCounts(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := r.db.QueryRow(ctx, `SELECT
			(SELECT COUNT(*) FROM inbound_transactions WHERE is_delivered = false),
			(SELECT COUNT(*) FROM inbound_transactions WHERE is_delivered = true),
			(SELECT COUNT(*) FROM outbound_transactions),
			(SELECT COALESCE(SUM(l.total), 0)
				FROM inbound_transaction_lines l
				JOIN inbound_transactions t ON t.id = l.transaction_id
				WHERE t.is_delivered = true)`).
		Scan(&d.PendingInbound, &d.DeliveredInbound, &d.OutboundCount, &d.TotalRevenue)
	return d, err
}

func (r *repository) Inventory(ctx context.Context, exceededOnly bool, asOf time.Time) ([]InventoryRow, error) {
	query := `SELECT t.invoice_number, s.name, l.product_code, p.name, c.name, b.name,
			l.quantity, l.remaining_quantity, l.delivery_date, l.expiry_date
		FROM inbound_transaction_lines l
		JOIN inbound_transactions t ON t.id = l.transaction_id
		JOIN suppliers s ON s.id = t.supplier_id
		JOIN products p ON p.code = l.product_code
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE t.is_delivered = false`
	args := []interface{}{}
	if exceededOnly {
		query += ` AND l.delivery_date IS NOT NULL AND l.delivery_date < $1`
		args = append(args, asOf)
	}
	query += ` ORDER BY t.inward_stock_date, l.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []InventoryRow
	for rows.Next() {
		var row InventoryRow
		if err := rows.Scan(&row.InvoiceNumber, &row.SupplierName, &row.ProductCode, &row.ProductName,
			&row.CategoryName, &row.BrandName, &row.Quantity, &row.Remaining, &row.DeliveryDate, &row.ExpiryDate); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
