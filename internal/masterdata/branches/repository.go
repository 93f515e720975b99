package branches

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Branch, int, error)
	GetByCode(ctx context.Context, code string) (Branch, error)
	Create(ctx context.Context, branch Branch) (Branch, error)
	UpdateByCode(ctx context.Context, code string, branch Branch) error
	DeleteByCode(ctx context.Context, code string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Branch, int, error) {
	query := `SELECT id, branch_code, name, location, phone, created_at, updated_at FROM branches WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM branches WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		cond := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR branch_code ILIKE $` + strconv.Itoa(argCount) + `)`
		query += cond
		countQuery += cond
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == "desc" {
		dir = "DESC"
	}
	query += " ORDER BY branch_code " + dir

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

	var list []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.BranchCode, &b.Name, &b.Location, &b.Phone, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

func (r *repository) GetByCode(ctx context.Context, code string) (Branch, error) {
	var b Branch
	err := r.db.QueryRow(ctx, `SELECT id, branch_code, name, location, phone, created_at, updated_at FROM branches WHERE branch_code = $1`, code).
		Scan(&b.ID, &b.BranchCode, &b.Name, &b.Location, &b.Phone, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, shared.ErrNotFound
	}
	return b, err
}

func (r *repository) Create(ctx context.Context, branch Branch) (Branch, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO branches (branch_code, name, location, phone, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		branch.BranchCode, branch.Name, branch.Location, branch.Phone, now, now).Scan(&branch.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Branch{}, shared.ErrDuplicate
		}
		return Branch{}, err
	}
	branch.CreatedAt = now
	branch.UpdatedAt = now
	return branch, nil
}

func (r *repository) UpdateByCode(ctx context.Context, code string, branch Branch) error {
	tag, err := r.db.Exec(ctx, `UPDATE branches SET name = $1, location = $2, phone = $3, updated_at = $4 WHERE branch_code = $5`,
		branch.Name, branch.Location, branch.Phone, time.Now(), code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteByCode(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM branches WHERE branch_code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
