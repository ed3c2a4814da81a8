package budgets

import (
	"context"
	"errors"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/memberships"
)

type Service struct {
	repo     Repository
	accounts accounts.Repository
	members  memberships.Repository
	logger   logging.Logger
}

func NewService(repo Repository, accountRepo accounts.Repository, memberRepo memberships.Repository, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accountRepo,
		members:  memberRepo,
		logger:   logger.With("module", "budgets_service"),
	}
}

func validMonth(month int) bool { return month >= 1 && month <= 12 }

// requireMember checks account membership; a missing membership reads as not
// authorized rather than not found.
func (s *Service) requireMember(ctx context.Context, accountID int64, userID string) error {
	if _, err := s.members.Get(ctx, accountID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotAuthorized
		}
		return err
	}
	return nil
}

// List returns every budget across all accounts. Admin only.
func (s *Service) List(ctx context.Context, claims *auth.Claims) ([]*Budget, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(claims); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Create adds a budget. The account must exist, the caller must be a member,
// and the account may hold at most one budget per month.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, accountID int64, year, month int, value float64) (*Budget, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if !validMonth(month) {
		return nil, common.ErrInvalidInput
	}

	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, accountID, claims.Subject); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByDate(ctx, accountID, year, month); err == nil {
		return nil, common.ErrDuplicateEntry
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	return s.repo.Create(ctx, &Budget{AccountID: accountID, Year: year, Month: month, Value: value})
}

// UpdateValue changes the value of an existing budget. Member only.
func (s *Service) UpdateValue(ctx context.Context, claims *auth.Claims, id int64, value float64) error {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, b.AccountID, claims.Subject); err != nil {
		return err
	}

	return s.repo.UpdateValue(ctx, id, value)
}

// ListByAccount returns the budgets of one account.
func (s *Service) ListByAccount(ctx context.Context, claims *auth.Claims, accountID int64) ([]*Budget, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, accountID)
}

// Delete removes a budget.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, b.AccountID, claims.Subject); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
