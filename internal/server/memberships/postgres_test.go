package memberships

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresCreateReturnsID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO account_memberships`).
		WithArgs(int64(1), "u1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	m, err := repo.Create(context.Background(), 1, "u1", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID != 7 || m.AccountID != 1 || m.UserID != "u1" || m.IsManager {
		t.Fatalf("unexpected membership: %+v", m)
	}
}

func TestPostgresCreateMapsUniqueViolation(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO account_memberships`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), 1, "u1", false)
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Fatalf("err = %v, want ErrDuplicateEntry", err)
	}
}

func TestPostgresAddManagerSetsFlag(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO account_memberships`).
		WithArgs(int64(1), "u1", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	if err := repo.AddManager(context.Background(), 1, "u1"); err != nil {
		t.Fatalf("AddManager: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresGetNotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM account_memberships`).
		WithArgs(int64(1), "nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "user_id", "is_manager"}))

	_, err := repo.Get(context.Background(), 1, "nobody")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostgresListByAccount(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM account_memberships\s+WHERE account_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "user_id", "is_manager"}).
			AddRow(int64(1), int64(1), "u1", true).
			AddRow(int64(2), int64(1), "u2", false))

	list, err := repo.ListByAccount(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(list) != 2 || !list[0].IsManager || list[1].UserID != "u2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPostgresSetManagerNoMatch(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE account_memberships SET is_manager = \$1`).
		WithArgs(true, int64(1), "nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetManager(context.Background(), 1, "nobody", true)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPostgresDeleteUnknownMembership(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM account_memberships`).
		WithArgs(int64(1), "nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 1, "nobody")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
