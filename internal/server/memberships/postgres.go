package memberships

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

func (r *PostgresRepository) Create(ctx context.Context, accountID int64, userID string, isManager bool) (*Membership, error) {
	query :=
		`INSERT INTO account_memberships (account_id, user_id, is_manager)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	m := &Membership{AccountID: accountID, UserID: userID, IsManager: isManager}
	err := r.db.QueryRowContext(ctx, query, accountID, userID, isManager).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// AddManager satisfies accounts.MemberAdder.
func (r *PostgresRepository) AddManager(ctx context.Context, accountID int64, userID string) error {
	_, err := r.Create(ctx, accountID, userID, true)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, accountID int64, userID string) (*Membership, error) {
	query :=
		`SELECT id, account_id, user_id, is_manager FROM account_memberships
		 WHERE account_id = $1 AND user_id = $2`

	m := &Membership{}
	err := r.db.QueryRowContext(ctx, query, accountID, userID).
		Scan(&m.ID, &m.AccountID, &m.UserID, &m.IsManager)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*Membership
	for rows.Next() {
		m := &Membership{}
		if err := rows.Scan(&m.ID, &m.AccountID, &m.UserID, &m.IsManager); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Membership, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, user_id, is_manager FROM account_memberships ORDER BY id`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Membership, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, user_id, is_manager FROM account_memberships
		 WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Membership, error) {
	return r.queryMany(ctx,
		`SELECT id, account_id, user_id, is_manager FROM account_memberships
		 WHERE account_id = $1 ORDER BY id`, accountID)
}

func (r *PostgresRepository) SetManager(ctx context.Context, accountID int64, userID string, isManager bool) error {
	query :=
		`UPDATE account_memberships SET is_manager = $1
		 WHERE account_id = $2 AND user_id = $3`

	return r.execExpectingRow(ctx, query, isManager, accountID, userID)
}

func (r *PostgresRepository) Delete(ctx context.Context, accountID int64, userID string) error {
	query := `DELETE FROM account_memberships WHERE account_id = $1 AND user_id = $2`
	return r.execExpectingRow(ctx, query, accountID, userID)
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
