package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storetrack/storetrack/internal/platform/db"
	"github.com/storetrack/storetrack/internal/stock"
)

type Repository interface {
	CreateInbound(ctx context.Context, txn InboundTransaction) (InboundTransaction, error)
	DeleteInbound(ctx context.Context, invoiceNumber string) error
	MarkDelivered(ctx context.Context, invoiceNumber string) error
	GetInboundByInvoice(ctx context.Context, invoiceNumber string, undeliveredOnly bool) (InboundTransaction, error)
	ListPendingInvoices(ctx context.Context) ([]string, error)
	ListInbound(ctx context.Context) ([]InboundTransaction, error)
	CreateOutbound(ctx context.Context, txn OutboundTransaction) (OutboundTransaction, error)
	ListOutbound(ctx context.Context) ([]OutboundTransaction, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

// CreateInbound inserts the header and lines and increments the ledger for
// every line, all in one transaction.
func (r *repository) CreateInbound(ctx context.Context, txn InboundTransaction) (InboundTransaction, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		now := time.Now()
		err := tx.QueryRow(ctx, `INSERT INTO inbound_transactions
			(invoice_number, supplier_id, inward_stock_date, delivery_date, remarks, is_delivered, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, false, $6, $6) RETURNING id`,
			txn.InvoiceNumber, txn.SupplierID, txn.InwardStockDate, txn.DeliveryDate, txn.Remarks, now).Scan(&txn.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateInvoice
			}
			return err
		}
		txn.CreatedAt = now
		txn.UpdatedAt = now

		for i := range txn.Lines {
			line := &txn.Lines[i]
			line.TransactionID = txn.ID
			err := tx.QueryRow(ctx, `INSERT INTO inbound_transaction_lines
				(transaction_id, product_code, quantity, remaining_quantity, unit_price, total, manufacturing_date, expiry_date, delivery_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
				line.TransactionID, line.ProductCode, line.Quantity, line.RemainingQuantity,
				line.UnitPrice, line.Total, line.ManufacturingDate, line.ExpiryDate, line.DeliveryDate).Scan(&line.ID)
			if err != nil {
				return err
			}
			if err := stock.UpsertAdd(ctx, tx, line.ProductCode, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return InboundTransaction{}, err
	}
	return txn, nil
}

// DeleteInbound reverses the ledger by each line's remaining quantity before
// deleting the transaction, so consumed stock is never credited back.
func (r *repository) DeleteInbound(ctx context.Context, invoiceNumber string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `SELECT id FROM inbound_transactions WHERE invoice_number = $1 FOR UPDATE`, invoiceNumber).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT product_code, remaining_quantity FROM inbound_transaction_lines WHERE transaction_id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		type reversal struct {
			code string
			qty  int64
		}
		var reversals []reversal
		for rows.Next() {
			var rev reversal
			if err := rows.Scan(&rev.code, &rev.qty); err != nil {
				rows.Close()
				return err
			}
			reversals = append(reversals, rev)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, rev := range reversals {
			if rev.qty == 0 {
				continue
			}
			if err := stock.UpsertAdd(ctx, tx, rev.code, -rev.qty); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM inbound_transaction_lines WHERE transaction_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM inbound_transactions WHERE id = $1`, id)
		return err
	})
}

func (r *repository) MarkDelivered(ctx context.Context, invoiceNumber string) error {
	tag, err := r.db.Exec(ctx, `UPDATE inbound_transactions SET is_delivered = true, updated_at = $1 WHERE invoice_number = $2`,
		time.Now(), invoiceNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GetInboundByInvoice(ctx context.Context, invoiceNumber string, undeliveredOnly bool) (InboundTransaction, error) {
	query := `SELECT id, invoice_number, supplier_id, inward_stock_date, delivery_date, remarks, is_delivered, created_at, updated_at
		FROM inbound_transactions WHERE invoice_number = $1`
	if undeliveredOnly {
		query += ` AND is_delivered = false`
	}

	var txn InboundTransaction
	err := r.db.QueryRow(ctx, query, invoiceNumber).Scan(&txn.ID, &txn.InvoiceNumber, &txn.SupplierID,
		&txn.InwardStockDate, &txn.DeliveryDate, &txn.Remarks, &txn.IsDelivered, &txn.CreatedAt, &txn.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return InboundTransaction{}, ErrNotFound
	}
	if err != nil {
		return InboundTransaction{}, err
	}

	txn.Lines, err = r.inboundLines(ctx, txn.ID)
	return txn, err
}

func (r *repository) inboundLines(ctx context.Context, transactionID int64) ([]InboundLine, error) {
	rows, err := r.db.Query(ctx, `SELECT id, transaction_id, product_code, quantity, remaining_quantity, unit_price, total, manufacturing_date, expiry_date, delivery_date
		FROM inbound_transaction_lines WHERE transaction_id = $1 ORDER BY id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []InboundLine
	for rows.Next() {
		var l InboundLine
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ProductCode, &l.Quantity, &l.RemainingQuantity,
			&l.UnitPrice, &l.Total, &l.ManufacturingDate, &l.ExpiryDate, &l.DeliveryDate); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) ListPendingInvoices(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT invoice_number FROM inbound_transactions WHERE is_delivered = false ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []string
	for rows.Next() {
		var inv string
		if err := rows.Scan(&inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *repository) ListInbound(ctx context.Context) ([]InboundTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT id, invoice_number, supplier_id, inward_stock_date, delivery_date, remarks, is_delivered, created_at, updated_at
		FROM inbound_transactions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []InboundTransaction
	for rows.Next() {
		var txn InboundTransaction
		if err := rows.Scan(&txn.ID, &txn.InvoiceNumber, &txn.SupplierID, &txn.InwardStockDate,
			&txn.DeliveryDate, &txn.Remarks, &txn.IsDelivered, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		lines, err := r.inboundLines(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Lines = lines
	}
	return list, nil
}

// CreateOutbound records the transfer header and lines. It does not touch the
// stock ledger: depletion for transfers is settled outside this flow.
func (r *repository) CreateOutbound(ctx context.Context, txn OutboundTransaction) (OutboundTransaction, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		now := time.Now()
		err := tx.QueryRow(ctx, `INSERT INTO outbound_transactions (invoice_number, branch_code, outward_date, remarks, created_at)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			txn.InvoiceNumber, txn.BranchCode, txn.OutwardDate, txn.Remarks, now).Scan(&txn.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateInvoice
			}
			return err
		}
		txn.CreatedAt = now

		for i := range txn.Lines {
			line := &txn.Lines[i]
			line.TransactionID = txn.ID
			err := tx.QueryRow(ctx, `INSERT INTO outbound_transaction_lines (transaction_id, product_code, qty_requested, unit_price, total)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				line.TransactionID, line.ProductCode, line.QtyRequested, line.UnitPrice, line.Total).Scan(&line.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return OutboundTransaction{}, err
	}
	return txn, nil
}

func (r *repository) ListOutbound(ctx context.Context) ([]OutboundTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT id, invoice_number, branch_code, outward_date, remarks, created_at
		FROM outbound_transactions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []OutboundTransaction
	for rows.Next() {
		var txn OutboundTransaction
		if err := rows.Scan(&txn.ID, &txn.InvoiceNumber, &txn.BranchCode, &txn.OutwardDate, &txn.Remarks, &txn.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		lineRows, err := r.db.Query(ctx, `SELECT id, transaction_id, product_code, qty_requested, unit_price, total
			FROM outbound_transaction_lines WHERE transaction_id = $1 ORDER BY id`, list[i].ID)
		if err != nil {
			return nil, err
		}
		var lines []OutboundLine
		for lineRows.Next() {
			var l OutboundLine
			if err := lineRows.Scan(&l.ID, &l.TransactionID, &l.ProductCode, &l.QtyRequested, &l.UnitPrice, &l.Total); err != nil {
				lineRows.Close()
				return nil, err
			}
			lines = append(lines, l)
		}
		lineRows.Close()
		if err := lineRows.Err(); err != nil {
			return nil, err
		}
		list[i].Lines = lines
	}
	return list, nil
}
