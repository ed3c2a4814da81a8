package accounts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
)

type memberAdderStub struct {
	added map[int64]string
	fail  bool
}

func (m *memberAdderStub) AddManager(_ context.Context, accountID int64, userID string) error {
	if m.fail {
		return errors.New("store down")
	}
	if m.added == nil {
		m.added = make(map[int64]string)
	}
	m.added[accountID] = userID
	return nil
}

func testClaims(userID string, isAdmin, fullyAuthenticated bool) *auth.Claims {
	return &auth.Claims{
		RegisteredClaims:     jwt.RegisteredClaims{Subject: userID},
		ConfirmationLevel:    "CONFIRMED",
		IsAdmin:              isAdmin,
		IsFullyAuthenticated: fullyAuthenticated,
	}
}

func newTestService(t *testing.T) (*Service, *InMemoryRepository, *memberAdderStub) {
	t.Helper()
	repo := NewInMemoryRepository()
	adder := &memberAdderStub{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(repo, adder, logger), repo, adder
}

func TestCreateEnrollsCreatorAsManager(t *testing.T) {
	t.Parallel()
	svc, _, adder := newTestService(t)

	account, err := svc.Create(context.Background(), testClaims("u1", false, true), "household")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if adder.added[account.ID] != "u1" {
		t.Fatalf("creator not enrolled as manager: %v", adder.added)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testClaims("u1", false, true), "household"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, testClaims("u2", false, true), "household")
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Fatalf("err = %v, want ErrDuplicateEntry", err)
	}
}

func TestCreateRollsBackOnEnrollFailure(t *testing.T) {
	t.Parallel()
	svc, repo, adder := newTestService(t)
	adder.fail = true
	ctx := context.Background()

	if _, err := svc.Create(ctx, testClaims("u1", false, true), "household"); err == nil {
		t.Fatalf("expected error when enrollment fails")
	}
	if _, err := repo.GetByName(ctx, "household"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("orphaned account left behind: %v", err)
	}
}

func TestCreateRequiresFullAuthentication(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), testClaims("u1", false, false), "household")
	if !errors.Is(err, common.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), testClaims("u1", false, true), "   ")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestListIsAdminOnly(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, testClaims("u1", false, true), "household"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.List(ctx, testClaims("u1", false, true)); !errors.Is(err, common.ErrNotAuthorized) {
		t.Fatalf("non-admin list err = %v, want ErrNotAuthorized", err)
	}

	result, err := svc.List(ctx, testClaims("admin", true, true))
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("len = %d, want 1", len(result))
	}
}
