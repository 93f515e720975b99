package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
	"github.com/storetrack/storetrack/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]ListItem, int, error)
	GetByCode(ctx context.Context, code string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	UpdateByCode(ctx context.Context, code string, product Product) error
	DeleteByCode(ctx context.Context, code string) error
	SearchCodes(ctx context.Context, prefix string) ([]string, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const listColumns = `p.id, p.code, p.barcode, p.name, p.category_id, p.brand_id, p.unit_price, p.created_at, p.updated_at, c.name, b.name`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]ListItem, int, error) {
	query := `SELECT ` + listColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM products p WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (p.name ILIKE $` + strconv.Itoa(argCount) + ` OR p.code ILIKE $` + strconv.Itoa(argCount) + ` OR p.barcode ILIKE $` + strconv.Itoa(argCount) + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CategoryID != nil {
		argCount++
		cond := ` AND p.category_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.CategoryID)
	}
	if filters.BrandID != nil {
		argCount++
		cond := ` AND p.brand_id = $` + strconv.Itoa(argCount)
		query += cond
		countQuery += cond
		args = append(args, *filters.BrandID)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters)

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []ListItem
	for rows.Next() {
		var item ListItem
		if err := rows.Scan(&item.ID, &item.Code, &item.Barcode, &item.Name, &item.CategoryID, &item.BrandID,
			&item.UnitPrice, &item.CreatedAt, &item.UpdatedAt, &item.CategoryName, &item.BrandName); err != nil {
			return nil, 0, err
		}
		list = append(list, item)
	}
	return list, total, rows.Err()
}

func sortOrder(filters shared.ListFilters) string {
	col := "p.name"
	switch filters.SortBy {
	case "code":
		col = "p.code"
	case "created_at":
		col = "p.created_at"
	case "unit_price":
		col = "p.unit_price"
	}
	if filters.SortDir == "desc" {
		return col + " DESC"
	}
	return col + " ASC"
}

func (r *repository) GetByCode(ctx context.Context, code string) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `SELECT id, code, barcode, name, category_id, brand_id, unit_price, created_at, updated_at FROM products WHERE code = $1`, code).
		Scan(&p.ID, &p.Code, &p.Barcode, &p.Name, &p.CategoryID, &p.BrandID, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO products (code, barcode, name, category_id, brand_id, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		product.Code, product.Barcode, product.Name, product.CategoryID, product.BrandID, product.UnitPrice, now, now).Scan(&product.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Product{}, shared.ErrDuplicate
		}
		return Product{}, err
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) UpdateByCode(ctx context.Context, code string, product Product) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET name = $1, category_id = $2, brand_id = $3, unit_price = $4, updated_at = $5 WHERE code = $6`,
		product.Name, product.CategoryID, product.BrandID, product.UnitPrice, time.Now(), code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByCode removes a product and zeroes its ledger row in one transaction.
// The ledger row itself survives as a zero-stock audit point.
func (r *repository) DeleteByCode(ctx context.Context, code string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE stock_ledger SET total_stock = 0, updated_at = $1 WHERE product_code = $2`, time.Now(), code); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE code = $1`, code)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *repository) SearchCodes(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT code FROM products WHERE code ILIKE $1 ORDER BY code LIMIT 10`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
