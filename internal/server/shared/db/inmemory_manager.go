package db

import (
	"context"
	"database/sql"

	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/budgets"
	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
	"github.com/ledgerkeep/ledgerkeep/internal/server/incomes"
	"github.com/ledgerkeep/ledgerkeep/internal/server/memberships"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

// InMemoryRepositoryManager backs tests and local runs without Postgres.
type InMemoryRepositoryManager struct {
	users       users.Repository
	accounts    accounts.Repository
	memberships memberships.Repository
	budgets     budgets.Repository
	expenses    expenses.Repository
	incomes     incomes.Repository
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Memberships() memberships.Repository {
	return m.memberships
}

func (m *InMemoryRepositoryManager) Budgets() budgets.Repository {
	return m.budgets
}

func (m *InMemoryRepositoryManager) Expenses() expenses.Repository {
	return m.expenses
}

func (m *InMemoryRepositoryManager) Incomes() incomes.Repository {
	return m.incomes
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users:       users.NewInMemoryRepository(),
		accounts:    accounts.NewInMemoryRepository(),
		memberships: memberships.NewInMemoryRepository(),
		budgets:     budgets.NewInMemoryRepository(),
		expenses:    expenses.NewInMemoryRepository(),
		incomes:     incomes.NewInMemoryRepository(),
	}
}
