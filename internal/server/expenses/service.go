package expenses

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
		logger:   logger.With("module", "expenses_service"),
	}
}

// CreateRequest carries the payload of a new expense. Category is validated
// with ParseCategory before it reaches the repository.
type CreateRequest struct {
	AccountID   int64   `json:"accountId"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

func validMonth(month int) bool { return month >= 1 && month <= 12 }

func (s *Service) requireMember(ctx context.Context, accountID int64, userID string) error {
	if _, err := s.members.Get(ctx, accountID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotAuthorized
		}
		return err
	}
	return nil
}

// List returns every expense across all accounts. Admin only.
func (s *Service) List(ctx context.Context, claims *auth.Claims) ([]*Expense, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(claims); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Create adds an expense. The account must exist and the caller must be a
// member; any number of expenses may share a month.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, req CreateRequest) (*Expense, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if !validMonth(req.Month) {
		return nil, common.ErrInvalidInput
	}
	category, err := ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByID(ctx, req.AccountID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, req.AccountID, claims.Subject); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Expense{
		AccountID:   req.AccountID,
		Month:       req.Month,
		Year:        req.Year,
		Value:       req.Value,
		Description: req.Description,
		Category:    category,
	})
}

// Update changes the value, description and category of an expense.
func (s *Service) Update(ctx context.Context, claims *auth.Claims, id int64, value float64, description, rawCategory string) error {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return err
	}
	category, err := ParseCategory(rawCategory)
	if err != nil {
		return err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, e.AccountID, claims.Subject); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, value, description, category)
}

// ListByAccount returns the expenses of one account.
func (s *Service) ListByAccount(ctx context.Context, claims *auth.Claims, accountID int64) ([]*Expense, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, accountID)
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, e.AccountID, claims.Subject); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
