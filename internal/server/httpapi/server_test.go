package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/budgets"
	"github.com/ledgerkeep/ledgerkeep/internal/server/config"
	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
	"github.com/ledgerkeep/ledgerkeep/internal/server/incomes"
	"github.com/ledgerkeep/ledgerkeep/internal/server/mail"
	"github.com/ledgerkeep/ledgerkeep/internal/server/memberships"
	"github.com/ledgerkeep/ledgerkeep/internal/server/reports"
	"github.com/ledgerkeep/ledgerkeep/internal/server/shared/db"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
	"golang.org/x/crypto/bcrypt"
)

type reportStoreStub struct{}

func (reportStoreStub) Put(_ context.Context, _, _ int, _ []byte) (string, error) {
	return "https://example.com/report.pdf", nil
}

type fixture struct {
	server *Server
	rm     db.RepositoryManager
	totp   *auth.TOTP
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost + 1

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rm := db.NewInMemoryRepositoryManager()

	tokens := auth.NewTokenManager([]byte(cfg.SecretKey), cfg.TokenValidityDuration, nil)
	hasher := auth.NewHasher(cfg.BcryptCost)
	totp := auth.NewTOTP(cfg.TOTPIssuer)

	userSvc := users.NewService(rm.Users(), hasher, tokens, totp, mail.NewLogMailer(logger), logger, cfg)
	accountSvc := accounts.NewService(rm.Accounts(), rm.Memberships(), logger)
	membershipSvc := memberships.NewService(rm.Memberships(), rm.Accounts(), rm.Users(), logger)
	budgetSvc := budgets.NewService(rm.Budgets(), rm.Accounts(), rm.Memberships(), logger)
	expenseSvc := expenses.NewService(rm.Expenses(), rm.Accounts(), rm.Memberships(), logger)
	incomeSvc := incomes.NewService(rm.Incomes(), rm.Accounts(), rm.Memberships(), logger)
	reportSvc := reports.NewService(rm.Accounts(), rm.Memberships(), rm.Incomes(), rm.Budgets(),
		rm.Expenses(), reports.NewPDFRenderer(), reportStoreStub{}, logger)

	server := NewServer(cfg, logger, tokens, userSvc, accountSvc, membershipSvc,
		budgetSvc, expenseSvc, incomeSvc, reportSvc)

	return &fixture{server: server, rm: rm, totp: totp}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := f.server.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// signup registers, confirms and logs a user in, returning the session
// token and the stored user.
func (f *fixture) signup(t *testing.T, email string) (string, *users.User) {
	t.Helper()
	ctx := context.Background()

	resp := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "pa55word", "firstName": "Ada",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	user, err := f.rm.Users().GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}

	resp = f.do(t, http.MethodGet, "/auth/confirmation?token="+user.ConfirmationToken, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "pa55word",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	result := decode[struct {
		Token string `json:"token"`
	}](t, resp)

	user, err = f.rm.Users().GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("stored user after login: %v", err)
	}
	return result.Token, user
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{common.ErrDuplicateEmail, fiber.StatusUnprocessableEntity},
		{common.ErrDuplicateEntry, fiber.StatusUnprocessableEntity},
		{common.ErrNo2FA, fiber.StatusUnprocessableEntity},
		{common.ErrInvalid2FAToken, fiber.StatusUnprocessableEntity},
		{common.ErrAlreadyAuthenticated, fiber.StatusUnprocessableEntity},
		{common.ErrInvalidInput, fiber.StatusUnprocessableEntity},
		{common.ErrNotFound, fiber.StatusNotFound},
		{common.ErrNotAuthenticated, fiber.StatusUnauthorized},
		{common.ErrUserNotFound, fiber.StatusUnauthorized},
		{common.ErrInvalidPassword, fiber.StatusUnauthorized},
		{common.ErrAccountNotConfirmed, fiber.StatusUnauthorized},
		{common.ErrInvalidToken, fiber.StatusUnauthorized},
		{common.ErrNotAuthorized, fiber.StatusForbidden},
		{errors.New("driver broke"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFromError(tt.err); got != tt.want {
			t.Fatalf("statusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRegisterDuplicateStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.signup(t, "ada@example.com")

	resp := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "other",
	})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestLoginBeforeConfirmation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "pa55word",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "pa55word",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestConfirmationTokenSingleUseOverHTTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "pa55word",
	})
	user, err := f.rm.Users().GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}

	first := f.do(t, http.MethodGet, "/auth/confirmation?token="+user.ConfirmationToken, "", nil)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first confirm status = %d", first.StatusCode)
	}
	second := f.do(t, http.MethodGet, "/auth/confirmation?token="+user.ConfirmationToken, "", nil)
	if second.StatusCode != fiber.StatusNotFound {
		t.Fatalf("second confirm status = %d, want 404", second.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/memberships/my", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	resp = f.do(t, http.MethodGet, "/memberships/my", "not-a-token", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", resp.StatusCode)
	}
}

func TestAccountAndBudgetFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	token, _ := f.signup(t, "ada@example.com")

	resp := f.do(t, http.MethodPost, "/accounts", token, map[string]string{"name": "household"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account status = %d", resp.StatusCode)
	}
	account := decode[accounts.Account](t, resp)

	resp = f.do(t, http.MethodPost, "/budgets", token, map[string]any{
		"accountId": account.ID, "year": 2026, "month": 3, "value": 1500,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create budget status = %d", resp.StatusCode)
	}

	// Second budget for the same month.
	resp = f.do(t, http.MethodPost, "/budgets", token, map[string]any{
		"accountId": account.ID, "year": 2026, "month": 3, "value": 900,
	})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("duplicate budget status = %d, want 422", resp.StatusCode)
	}

	// A non-member is rejected.
	outsiderToken, _ := f.signup(t, "eve@example.com")
	resp = f.do(t, http.MethodPost, "/budgets", outsiderToken, map[string]any{
		"accountId": account.ID, "year": 2026, "month": 4, "value": 100,
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("outsider budget status = %d, want 403", resp.StatusCode)
	}
}

func TestExpenseCategoryValidationOverHTTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	token, _ := f.signup(t, "ada@example.com")
	resp := f.do(t, http.MethodPost, "/accounts", token, map[string]string{"name": "household"})
	account := decode[accounts.Account](t, resp)

	resp = f.do(t, http.MethodPost, "/expenses", token, map[string]any{
		"accountId": account.ID, "year": 2026, "month": 3, "value": 10, "category": "LUXURY",
	})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestAdminOnlyListing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	token, _ := f.signup(t, "ada@example.com")
	resp := f.do(t, http.MethodGet, "/accounts", token, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestTwoFactorLoginFlowOverHTTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	token, user := f.signup(t, "ada@example.com")

	// Enroll.
	resp := f.do(t, http.MethodPost, "/auth/2fa/init", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("2fa init status = %d", resp.StatusCode)
	}

	stored, err := f.rm.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	code, err := f.totp.GenerateCode(stored.TwoFactorSecret)
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}

	resp = f.do(t, http.MethodPost, "/auth/2fa/activate", token, map[string]string{"code": code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("2fa activate status = %d", resp.StatusCode)
	}

	// A fresh login now yields a partial token.
	resp = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "pa55word",
	})
	partial := decode[struct {
		Token string `json:"token"`
	}](t, resp)

	// Partial sessions cannot touch finance routes.
	resp = f.do(t, http.MethodPost, "/accounts", partial.Token, map[string]string{"name": "blocked"})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("partial token account create status = %d, want 403", resp.StatusCode)
	}

	// Upgrade via the second factor.
	code, _ = f.totp.GenerateCode(stored.TwoFactorSecret)
	resp = f.do(t, http.MethodPost, "/auth/2fa/login", partial.Token, map[string]string{"code": code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("2fa login status = %d", resp.StatusCode)
	}
	full := decode[struct {
		Token string `json:"token"`
	}](t, resp)

	resp = f.do(t, http.MethodPost, "/accounts", full.Token, map[string]string{"name": "household"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("full token account create status = %d", resp.StatusCode)
	}

	// Upgrading an already-full session is rejected.
	code, _ = f.totp.GenerateCode(stored.TwoFactorSecret)
	resp = f.do(t, http.MethodPost, "/auth/2fa/login", full.Token, map[string]string{"code": code})
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("re-upgrade status = %d, want 422", resp.StatusCode)
	}
}

func TestUserProfileRoutes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	token, _ := f.signup(t, "ada@example.com")

	resp := f.do(t, http.MethodGet, "/users/my", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile read status = %d", resp.StatusCode)
	}
	profile := decode[users.Profile](t, resp)
	if profile.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	resp = f.do(t, http.MethodPatch, "/users", token, map[string]string{
		"firstName": "Augusta", "lastName": "King",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile patch status = %d", resp.StatusCode)
	}
	profile = decode[users.Profile](t, resp)
	if profile.FirstName != "Augusta" || profile.LastName != "King" {
		t.Fatalf("patch not applied: %+v", profile)
	}

	// Listing every user stays admin only.
	resp = f.do(t, http.MethodGet, "/users", token, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("user list status = %d, want 403", resp.StatusCode)
	}
}

func TestMonthReportOverHTTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	token, _ := f.signup(t, "ada@example.com")
	resp := f.do(t, http.MethodPost, "/accounts", token, map[string]string{"name": "household"})
	account := decode[accounts.Account](t, resp)

	f.do(t, http.MethodPost, "/incomes", token, map[string]any{
		"accountId": account.ID, "year": 2026, "month": 3, "value": 3000,
	})
	f.do(t, http.MethodPost, "/expenses", token, map[string]any{
		"accountId": account.ID, "year": 2026, "month": 3, "value": 100,
		"description": "groceries", "category": "FOOD",
	})

	resp = f.do(t, http.MethodGet, fmt.Sprintf("/reports/%d/2026/3", account.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("month report status = %d", resp.StatusCode)
	}
	result := decode[struct {
		URL string `json:"url"`
	}](t, resp)
	if result.URL == "" {
		t.Fatalf("empty report url")
	}

	// No income for the month.
	resp = f.do(t, http.MethodGet, fmt.Sprintf("/reports/%d/2026/4", account.ID), token, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("missing income report status = %d, want 404", resp.StatusCode)
	}
}
