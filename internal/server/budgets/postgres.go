package budgets

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

func scanBudget(row *sql.Row) (*Budget, error) {
	b := &Budget{}
	if err := row.Scan(&b.ID, &b.AccountID, &b.Month, &b.Year, &b.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b *Budget) (*Budget, error) {
	query :=
		`INSERT INTO budgets (account_id, month, year, value)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, b.AccountID, b.Month, b.Year, b.Value).Scan(&b.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Budget, error) {
	query := `SELECT id, account_id, month, year, value FROM budgets WHERE id = $1`
	return scanBudget(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByDate(ctx context.Context, accountID int64, year, month int) (*Budget, error) {
	query :=
		`SELECT id, account_id, month, year, value FROM budgets
		 WHERE account_id = $1 AND year = $2 AND month = $3`

	return scanBudget(r.db.QueryRowContext(ctx, query, accountID, year, month))
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*Budget
	for rows.Next() {
		b := &Budget{}
		if err := rows.Scan(&b.ID, &b.AccountID, &b.Month, &b.Year, &b.Value); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Budget, error) {
	return r.queryMany(ctx, `SELECT id, account_id, month, year, value FROM budgets ORDER BY id`)
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Budget, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, month, year, value FROM budgets
		 WHERE account_id = $1 ORDER BY year, month`, accountID)
}

func (r *PostgresRepository) ListByYear(ctx context.Context, accountID int64, year int) ([]*Budget, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, month, year, value FROM budgets
		 WHERE account_id = $1 AND year = $2 ORDER BY value DESC`, accountID, year)
}

func (r *PostgresRepository) UpdateValue(ctx context.Context, id int64, value float64) error {
	return r.execExpectingRow(ctx, `UPDATE budgets SET value = $1 WHERE id = $2`, value, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.execExpectingRow(ctx, `DELETE FROM budgets WHERE id = $1`, id)
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
