package incomes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/dbx"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanIncome(row *sql.Row) (*Income, error) {
	in := &Income{}
	if err := row.Scan(&in.ID, &in.AccountID, &in.Month, &in.Year, &in.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return in, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in *Income) (*Income, error) {
	query :=
		`INSERT INTO incomes (account_id, month, year, value)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, in.AccountID, in.Month, in.Year, in.Value).Scan(&in.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return in, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Income, error) {
	query := `SELECT id, account_id, month, year, value FROM incomes WHERE id = $1`
	return scanIncome(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByDate(ctx context.Context, accountID int64, year, month int) (*Income, error) {
	query :=
		`SELECT id, account_id, month, year, value FROM incomes
		 WHERE account_id = $1 AND year = $2 AND month = $3`

	return scanIncome(r.db.QueryRowContext(ctx, query, accountID, year, month))
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*Income, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*Income
	for rows.Next() {
		in := &Income{}
		if err := rows.Scan(&in.ID, &in.AccountID, &in.Month, &in.Year, &in.Value); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Income, error) {
	return r.queryMany(ctx, `SELECT id, account_id, month, year, value FROM incomes ORDER BY id`)
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Income, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, month, year, value FROM incomes
		 WHERE account_id = $1 ORDER BY year, month`, accountID)
}

func (r *PostgresRepository) ListByYear(ctx context.Context, accountID int64, year int) ([]*Income, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, month, year, value FROM incomes
		 WHERE account_id = $1 AND year = $2 ORDER BY value DESC`, accountID, year)
}

func (r *PostgresRepository) UpdateValue(ctx context.Context, id int64, value float64) error {
	return r.execExpectingRow(ctx, `UPDATE incomes SET value = $1 WHERE id = $2`, value, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.execExpectingRow(ctx, `DELETE FROM incomes WHERE id = $1`, id)
}

func (r *PostgresRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
