package stock

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	TotalByProductCode(ctx context.Context, productCode string) (int64, error)
	List(ctx context.Context) ([]LedgerEntry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) TotalByProductCode(ctx context.Context, productCode string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT total_stock FROM stock_ledger WHERE product_code = $1`, productCode).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrLedgerNotFound
	}
	return total, err
}

func (r *repository) List(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, product_code, total_stock, updated_at FROM stock_ledger ORDER BY product_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductCode, &e.TotalStock, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Tx-scoped ledger helpers shared by the transaction and removal flows.
// Callers hold the row lock for the duration of their transaction.

// GetForUpdate locks and returns the ledger row for a product.
func GetForUpdate(ctx context.Context, tx pgx.Tx, productCode string) (LedgerEntry, error) {
	var e LedgerEntry
	err := tx.QueryRow(ctx, `SELECT id, product_code, total_stock, updated_at FROM stock_ledger WHERE product_code = $1 FOR UPDATE`, productCode).
		Scan(&e.ID, &e.ProductCode, &e.TotalStock, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LedgerEntry{}, ErrLedgerNotFound
	}
	return e, err
}

// UpsertAdd adds delta to the product's ledger total, creating the row when
// the product has never been stocked.
func UpsertAdd(ctx context.Context, tx pgx.Tx, productCode string, delta int64) error {
	_, err := tx.Exec(ctx, `INSERT INTO stock_ledger (product_code, total_stock, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_code) DO UPDATE SET total_stock = stock_ledger.total_stock + EXCLUDED.total_stock, updated_at = EXCLUDED.updated_at`,
		productCode, delta, time.Now())
	return err
}

// SetTotal overwrites the ledger total for a product already locked with
// GetForUpdate.
func SetTotal(ctx context.Context, tx pgx.Tx, productCode string, total int64) error {
	tag, err := tx.Exec(ctx, `UPDATE stock_ledger SET total_stock = $1, updated_at = $2 WHERE product_code = $3`,
		total, time.Now(), productCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLedgerNotFound
	}
	return nil
}
