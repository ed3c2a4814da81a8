// Package db wires the repositories to a storage backend and runs schema
// migrations on startup.
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

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Accounts() accounts.Repository
	Memberships() memberships.Repository
	Budgets() budgets.Repository
	Expenses() expenses.Repository
	Incomes() incomes.Repository
}
