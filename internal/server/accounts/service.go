package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
)

// MemberAdder enrolls a user as the manager of a freshly created account.
// Satisfied by the membership repositories.
type MemberAdder interface {
	AddManager(ctx context.Context, accountID int64, userID string) error
}

type Service struct {
	repo    Repository
	members MemberAdder
	logger  logging.Logger
}

func NewService(repo Repository, members MemberAdder, logger logging.Logger) *Service {
	return &Service{repo: repo, members: members, logger: logger.With("module", "accounts_service")}
}

// List returns every account. Admin only.
func (s *Service) List(ctx context.Context, claims *auth.Claims) ([]*Account, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(claims); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Create adds an account with a unique name and enrolls the caller as its
// manager member.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, name string) (*Account, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrInvalidInput
	}

	account, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.members.AddManager(ctx, account.ID, claims.Subject); err != nil {
		// Roll the orphaned account back so retries are not blocked by the
		// unique name constraint.
		if derr := s.repo.Delete(ctx, account.ID); derr != nil && !errors.Is(derr, common.ErrNotFound) {
			s.logger.Error(ctx, "orphaned account cleanup failed", "account_id", account.ID, "error", derr)
		}
		return nil, err
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID, "manager", claims.Subject)
	return account, nil
}

// Get returns one account by id. Caller must be fully authenticated.
func (s *Service) Get(ctx context.Context, claims *auth.Claims, id int64) (*Account, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
