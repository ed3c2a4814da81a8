package memberships

import (
	"context"
	"errors"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

type Service struct {
	repo     Repository
	accounts accounts.Repository
	users    users.Repository
	logger   logging.Logger
}

func NewService(repo Repository, accountRepo accounts.Repository, userRepo users.Repository, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accountRepo,
		users:    userRepo,
		logger:   logger.With("module", "memberships_service"),
	}
}

// requireManager checks that the caller holds a manager membership of the
// account. A missing membership reads as not authorized, not as not found.
func (s *Service) requireManager(ctx context.Context, accountID int64, userID string) error {
	m, err := s.repo.Get(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotAuthorized
		}
		return err
	}
	if !m.IsManager {
		return common.ErrNotAuthorized
	}
	return nil
}

// checkAccountAndUser verifies both referenced records exist.
func (s *Service) checkAccountAndUser(ctx context.Context, accountID int64, userID string) error {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

// List returns every membership across all accounts. Admin only.
func (s *Service) List(ctx context.Context, claims *auth.Claims) ([]*Membership, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(claims); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Create adds a regular member to an account. Only a manager of the account
// may do this; the new member never starts as a manager.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, accountID int64, userID string) (*Membership, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := s.checkAccountAndUser(ctx, accountID, userID); err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, accountID, claims.Subject); err != nil {
		return nil, err
	}

	m, err := s.repo.Create(ctx, accountID, userID, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "member added", "account_id", accountID, "user_id", userID)
	return m, nil
}

// MyMemberships returns the caller's memberships.
func (s *Service) MyMemberships(ctx context.Context, claims *auth.Claims) ([]*Membership, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, claims.Subject)
}

// AccountMemberships returns the member list of one account.
func (s *Service) AccountMemberships(ctx context.Context, claims *auth.Claims, accountID int64) ([]*Membership, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, accountID)
}

// Delete removes a member from an account. Only a manager may remove
// members, and manager memberships cannot be removed.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, accountID int64, userID string) error {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return err
	}
	if err := s.checkAccountAndUser(ctx, accountID, userID); err != nil {
		return err
	}
	if err := s.requireManager(ctx, accountID, claims.Subject); err != nil {
		return err
	}

	target, err := s.repo.Get(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if target.IsManager {
		return common.ErrNotAuthorized
	}

	return s.repo.Delete(ctx, accountID, userID)
}

// AssignManager promotes an existing member to manager. Manager only.
func (s *Service) AssignManager(ctx context.Context, claims *auth.Claims, accountID int64, userID string) error {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return err
	}
	if err := s.checkAccountAndUser(ctx, accountID, userID); err != nil {
		return err
	}
	if err := s.requireManager(ctx, accountID, claims.Subject); err != nil {
		return err
	}

	if _, err := s.repo.Get(ctx, accountID, userID); err != nil {
		return err
	}

	return s.repo.SetManager(ctx, accountID, userID, true)
}

// IsMember reports whether the user belongs to the account. Used by the
// finance services for their membership gate.
func (s *Service) IsMember(ctx context.Context, accountID int64, userID string) (bool, error) {
	_, err := s.repo.Get(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
