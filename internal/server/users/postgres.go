package users

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

const userColumns = `id, email, first_name, last_name, password_hash, confirmation_token,
	 confirmation_level, is_admin, two_factor_active, two_factor_secret, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user := &User{}
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.ConfirmationToken, &user.ConfirmationLevel,
		&user.IsAdmin, &user.TwoFactorAuth.Active, &user.TwoFactorSecret, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (email, first_name, last_name, password_hash, confirmation_token,
		    confirmation_level, is_admin, two_factor_active, two_factor_secret)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.PasswordHash,
		user.ConfirmationToken, user.ConfirmationLevel, user.IsAdmin,
		user.TwoFactorAuth.Active, user.TwoFactorSecret).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, firstName, lastName string) (*User, error) {
	query :=
		`UPDATE users SET first_name = $1, last_name = $2
		 WHERE id = $3
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, firstName, lastName, id))
}

func (r *PostgresRepository) RotatePendingToken(ctx context.Context, email, newToken string) (*User, error) {
	query :=
		`UPDATE users SET confirmation_token = $1
		 WHERE email = $2 AND confirmation_level = 'PENDING'
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, newToken, email))
}

func (r *PostgresRepository) ConsumeConfirmationToken(ctx context.Context, token, newToken string) (*User, error) {
	// Conditional on the old token value: at most one concurrent caller wins.
	query :=
		`UPDATE users SET confirmation_token = $1, confirmation_level = 'CONFIRMED'
		 WHERE confirmation_token = $2 AND confirmation_level = 'PENDING'
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, newToken, token))
}

func (r *PostgresRepository) RotateTokenByEmail(ctx context.Context, email, newToken string) (*User, error) {
	query :=
		`UPDATE users SET confirmation_token = $1
		 WHERE email = $2
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, newToken, email))
}

func (r *PostgresRepository) UpdatePasswordByToken(ctx context.Context, token, passwordHash, newToken string) error {
	query :=
		`UPDATE users SET password_hash = $1, confirmation_token = $2
		 WHERE confirmation_token = $3
		 `

	return r.execExpectingRow(ctx, query, passwordHash, newToken, token)
}

func (r *PostgresRepository) SetTwoFactorSecret(ctx context.Context, id, secret string) error {
	query := `UPDATE users SET two_factor_secret = $1 WHERE id = $2`
	return r.execExpectingRow(ctx, query, secret, id)
}

func (r *PostgresRepository) ActivateTwoFactor(ctx context.Context, id string) error {
	query := `UPDATE users SET two_factor_active = TRUE WHERE id = $1`
	return r.execExpectingRow(ctx, query, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	return r.execExpectingRow(ctx, query, id)
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
