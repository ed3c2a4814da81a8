package reports

import (
	"context"
	"errors"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/budgets"
	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
	"github.com/ledgerkeep/ledgerkeep/internal/server/incomes"
	"github.com/ledgerkeep/ledgerkeep/internal/server/memberships"
)

// Renderer turns an aggregated report into a PDF document.
type Renderer interface {
	RenderMonth(report *MonthReport) ([]byte, error)
	RenderYear(report *YearReport) ([]byte, error)
}

type Service struct {
	accounts accounts.Repository
	members  memberships.Repository
	incomes  incomes.Repository
	budgets  budgets.Repository
	expenses expenses.Repository
	renderer Renderer
	store    Store
	logger   logging.Logger
}

func NewService(
	accountRepo accounts.Repository,
	memberRepo memberships.Repository,
	incomeRepo incomes.Repository,
	budgetRepo budgets.Repository,
	expenseRepo expenses.Repository,
	renderer Renderer,
	store Store,
	logger logging.Logger,
) *Service {
	return &Service{
		accounts: accountRepo,
		members:  memberRepo,
		incomes:  incomeRepo,
		budgets:  budgetRepo,
		expenses: expenseRepo,
		renderer: renderer,
		store:    store,
		logger:   logger.With("module", "reports_service"),
	}
}

// checkAccess verifies the account exists and the caller is a member.
func (s *Service) checkAccess(ctx context.Context, claims *auth.Claims, accountID int64) (*accounts.Account, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.Get(ctx, accountID, claims.Subject); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotAuthorized
		}
		return nil, err
	}

	return account, nil
}

// BuildMonthReport aggregates one month. A month without an income record
// yields common.ErrNotFound; a missing budget counts as zero.
func (s *Service) BuildMonthReport(ctx context.Context, claims *auth.Claims, accountID int64, year, month int) (*MonthReport, error) {
	account, err := s.checkAccess(ctx, claims, accountID)
	if err != nil {
		return nil, err
	}

	income, err := s.incomes.GetByDate(ctx, accountID, year, month)
	if err != nil {
		return nil, err
	}

	var budgetValue float64
	budget, err := s.budgets.GetByDate(ctx, accountID, year, month)
	if err == nil {
		budgetValue = budget.Value
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	items, err := s.expenses.ListByDate(ctx, accountID, year, month)
	if err != nil {
		return nil, err
	}

	total := sumExpenses(items)

	return &MonthReport{
		AccountName:   account.Name,
		Year:          year,
		Month:         month,
		Income:        income.Value,
		Budget:        budgetValue,
		TotalExpenses: total,
		Balance:       income.Value - budgetValue - total,
		Breakdown:     breakdown(items, total),
	}, nil
}

// BuildYearReport aggregates a full year. A year without any income records
// yields common.ErrNotFound.
func (s *Service) BuildYearReport(ctx context.Context, claims *auth.Claims, accountID int64, year int) (*YearReport, error) {
	account, err := s.checkAccess(ctx, claims, accountID)
	if err != nil {
		return nil, err
	}

	// Ordered by value descending: first is the highest month, last the lowest.
	yearIncomes, err := s.incomes.ListByYear(ctx, accountID, year)
	if err != nil {
		return nil, err
	}
	if len(yearIncomes) == 0 {
		return nil, common.ErrNotFound
	}

	yearBudgets, err := s.budgets.ListByYear(ctx, accountID, year)
	if err != nil {
		return nil, err
	}

	items, err := s.expenses.ListByYear(ctx, accountID, year)
	if err != nil {
		return nil, err
	}

	var totalIncome, totalBudget float64
	for _, in := range yearIncomes {
		totalIncome += in.Value
	}
	for _, b := range yearBudgets {
		totalBudget += b.Value
	}
	totalExpenses := sumExpenses(items)

	report := &YearReport{
		AccountName:   account.Name,
		Year:          year,
		TotalIncome:   totalIncome,
		TotalBudget:   totalBudget,
		TotalExpenses: totalExpenses,
		TotalBalance:  totalIncome - totalBudget - totalExpenses,
		HighestIncome: MonthExtreme{
			Month: monthName(yearIncomes[0].Month),
			Value: yearIncomes[0].Value,
		},
		LowestIncome: MonthExtreme{
			Month: monthName(yearIncomes[len(yearIncomes)-1].Month),
			Value: yearIncomes[len(yearIncomes)-1].Value,
		},
		Breakdown: breakdown(items, totalExpenses),
	}

	if len(yearBudgets) > 0 {
		report.HighestBudget = MonthExtreme{
			Month: monthName(yearBudgets[0].Month),
			Value: yearBudgets[0].Value,
		}
		report.LowestBudget = MonthExtreme{
			Month: monthName(yearBudgets[len(yearBudgets)-1].Month),
			Value: yearBudgets[len(yearBudgets)-1].Value,
		}
	}

	return report, nil
}

// GenerateMonthReport builds, renders and uploads the month report and
// returns a presigned download URL.
func (s *Service) GenerateMonthReport(ctx context.Context, claims *auth.Claims, accountID int64, year, month int) (string, error) {
	if month < 1 || month > 12 {
		return "", common.ErrInvalidInput
	}

	report, err := s.BuildMonthReport(ctx, claims, accountID, year, month)
	if err != nil {
		return "", err
	}

	pdf, err := s.renderer.RenderMonth(report)
	if err != nil {
		return "", err
	}

	url, err := s.store.Put(ctx, year, month, pdf)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "month report generated", "account_id", accountID, "year", year, "month", month)
	return url, nil
}

// GenerateYearReport builds, renders and uploads the year report and returns
// a presigned download URL.
func (s *Service) GenerateYearReport(ctx context.Context, claims *auth.Claims, accountID int64, year int) (string, error) {
	report, err := s.BuildYearReport(ctx, claims, accountID, year)
	if err != nil {
		return "", err
	}

	pdf, err := s.renderer.RenderYear(report)
	if err != nil {
		return "", err
	}

	url, err := s.store.Put(ctx, year, 0, pdf)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "year report generated", "account_id", accountID, "year", year)
	return url, nil
}
