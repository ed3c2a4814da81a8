package expenses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/dbx"
)

const expenseColumns = `id, account_id, month, year, value, description, category`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	query :=
		`INSERT INTO expenses (account_id, month, year, value, description, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		e.AccountID, e.Month, e.Year, e.Value, e.Description, e.Category).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.AccountID, &e.Month, &e.Year, &e.Value, &e.Description, &e.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Month, &e.Year, &e.Value, &e.Description, &e.Category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Expense, error) {
	return r.queryMany(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY id`)
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Expense, error) {
	return r.queryMany(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE account_id = $1 ORDER BY year, month, id`, accountID)
}

func (r *PostgresRepository) ListByDate(ctx context.Context, accountID int64, year, month int) ([]*Expense, error) {
	return r.queryMany(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE account_id = $1 AND year = $2 AND month = $3 ORDER BY id`, accountID, year, month)
}

func (r *PostgresRepository) ListByYear(ctx context.Context, accountID int64, year int) ([]*Expense, error) {
	return r.queryMany(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE account_id = $1 AND year = $2 ORDER BY month, id`, accountID, year)
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, value float64, description string, category Category) error {
	query :=
		`UPDATE expenses SET value = $1, description = $2, category = $3
		 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, value, description, category, id)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
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
