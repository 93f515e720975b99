package removal

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storetrack/storetrack/internal/platform/db"
	"github.com/storetrack/storetrack/internal/stock"
)

// TxRepository is the transaction-scoped surface the depletion walk runs on.
// Lots and the ledger row stay locked until the enclosing transaction ends.
type TxRepository interface {
	SelectLotsForUpdate(ctx context.Context, productCode string, expiredBefore *time.Time) ([]Lot, error)
	UpdateLotRemaining(ctx context.Context, lotID, remaining int64) error
	GetLedgerForUpdate(ctx context.Context, productCode string) (stock.LedgerEntry, error)
	SetLedgerTotal(ctx context.Context, productCode string, total int64) error
	InsertRecord(ctx context.Context, record Record) (Record, error)
}

type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
	ProductExists(ctx context.Context, productCode string) (bool, error)
	ListTracked(ctx context.Context, reason Reason) ([]TrackedRecord, error)
	ListExpiredInStock(ctx context.Context, asOf time.Time) ([]ExpiredLot, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *repository) ProductExists(ctx context.Context, productCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE code = $1)`, productCode).Scan(&exists)
	return exists, err
}

func (r *repository) ListTracked(ctx context.Context, reason Reason) ([]TrackedRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT rr.id, rr.product_code, rr.lot_id, rr.reason, rr.quantity, rr.expiry_date, rr.remarks, rr.removed_at,
			p.name, c.name, b.name
		FROM removal_records rr
		JOIN products p ON p.code = rr.product_code
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE rr.reason = $1
		ORDER BY rr.removed_at DESC, rr.id DESC`, string(reason))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TrackedRecord
	for rows.Next() {
		var tr TrackedRecord
		if err := rows.Scan(&tr.ID, &tr.ProductCode, &tr.LotID, &tr.Reason, &tr.Quantity, &tr.ExpiryDate,
			&tr.Remarks, &tr.RemovedAt, &tr.ProductName, &tr.CategoryName, &tr.BrandName); err != nil {
			return nil, err
		}
		records = append(records, tr)
	}
	return records, rows.Err()
}

func (r *repository) ListExpiredInStock(ctx context.Context, asOf time.Time) ([]ExpiredLot, error) {
	rows, err := r.db.Query(ctx, `SELECT l.id, l.product_code, p.name, l.remaining_quantity, l.expiry_date, t.invoice_number
		FROM inbound_transaction_lines l
		JOIN inbound_transactions t ON t.id = l.transaction_id
		JOIN products p ON p.code = l.product_code
		WHERE l.remaining_quantity > 0 AND l.expiry_date IS NOT NULL AND l.expiry_date < $1
		ORDER BY l.expiry_date ASC, l.delivery_date ASC, l.id ASC`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []ExpiredLot
	for rows.Next() {
		var lot ExpiredLot
		if err := rows.Scan(&lot.LotID, &lot.ProductCode, &lot.ProductName, &lot.Remaining, &lot.ExpiryDate, &lot.InvoiceNumber); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

// SelectLotsForUpdate locks the product's depletable lots in
// first-expired-first-out order. Lots without an expiry date sort last. When
// expiredBefore is set only lots expired before that instant qualify.
func (t *txRepository) SelectLotsForUpdate(ctx context.Context, productCode string, expiredBefore *time.Time) ([]Lot, error) {
	query := `SELECT id, product_code, remaining_quantity, expiry_date, delivery_date
		FROM inbound_transaction_lines
		WHERE product_code = $1 AND remaining_quantity > 0`
	args := []interface{}{productCode}
	if expiredBefore != nil {
		query += ` AND expiry_date IS NOT NULL AND expiry_date < $2`
		args = append(args, *expiredBefore)
	}
	query += ` ORDER BY expiry_date ASC NULLS LAST, delivery_date ASC, id ASC FOR UPDATE`

	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []Lot
	for rows.Next() {
		var lot Lot
		if err := rows.Scan(&lot.ID, &lot.ProductCode, &lot.Remaining, &lot.ExpiryDate, &lot.DeliveryDate); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

func (t *txRepository) UpdateLotRemaining(ctx context.Context, lotID, remaining int64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE inbound_transaction_lines SET remaining_quantity = $1 WHERE id = $2`, remaining, lotID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("lot vanished during removal")
	}
	return nil
}

func (t *txRepository) GetLedgerForUpdate(ctx context.Context, productCode string) (stock.LedgerEntry, error) {
	return stock.GetForUpdate(ctx, t.tx, productCode)
}

func (t *txRepository) SetLedgerTotal(ctx context.Context, productCode string, total int64) error {
	return stock.SetTotal(ctx, t.tx, productCode, total)
}

func (t *txRepository) InsertRecord(ctx context.Context, record Record) (Record, error) {
	err := t.tx.QueryRow(ctx, `INSERT INTO removal_records (product_code, lot_id, reason, quantity, expiry_date, remarks, removed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		record.ProductCode, record.LotID, string(record.Reason), record.Quantity, record.ExpiryDate, record.Remarks, record.RemovedAt).Scan(&record.ID)
	return record, err
}
