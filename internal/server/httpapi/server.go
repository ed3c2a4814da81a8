package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/budgets"
	"github.com/ledgerkeep/ledgerkeep/internal/server/config"
	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
	"github.com/ledgerkeep/ledgerkeep/internal/server/incomes"
	"github.com/ledgerkeep/ledgerkeep/internal/server/memberships"
	"github.com/ledgerkeep/ledgerkeep/internal/server/reports"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	app    *fiber.App
	addr   string
	tokens *auth.TokenManager
	logger logging.Logger

	users       *users.Service
	accounts    *accounts.Service
	memberships *memberships.Service
	budgets     *budgets.Service
	expenses    *expenses.Service
	incomes     *incomes.Service
	reports     *reports.Service
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	tokens *auth.TokenManager,
	userSvc *users.Service,
	accountSvc *accounts.Service,
	membershipSvc *memberships.Service,
	budgetSvc *budgets.Service,
	expenseSvc *expenses.Service,
	incomeSvc *incomes.Service,
	reportSvc *reports.Service,
) *Server {
	s := &Server{
		app:         fiber.New(fiber.Config{DisableStartupMessage: true}),
		addr:        cfg.EndpointAddrHTTP,
		tokens:      tokens,
		logger:      logger.With("module", "httpapi"),
		users:       userSvc,
		accounts:    accountSvc,
		memberships: membershipSvc,
		budgets:     budgetSvc,
		expenses:    expenseSvc,
		incomes:     incomeSvc,
		reports:     reportSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	authGroup := s.app.Group("/auth")
	authGroup.Post("/register", s.handleRegister)
	authGroup.Post("/login", s.handleLogin)
	authGroup.Post("/resend", s.handleResendConfirmation)
	authGroup.Get("/confirmation", s.handleConfirmAccount)
	authGroup.Post("/request-new-password", s.handleRequestNewPassword)
	authGroup.Post("/reset-password", s.handleResetPassword)

	twoFactor := authGroup.Group("/2fa", s.requireToken)
	twoFactor.Post("/login", s.handleTwoFactorLogin)
	twoFactor.Post("/init", s.handleTwoFactorInit)
	twoFactor.Post("/activate", s.handleTwoFactorActivate)
	twoFactor.Post("/verify", s.handleTwoFactorVerify)

	api := s.app.Group("/", s.requireToken)

	api.Get("/users", s.handleListUsers)
	api.Get("/users/my", s.handleMyProfile)
	api.Patch("/users", s.handleUpdateProfile)

	api.Get("/accounts", s.handleListAccounts)
	api.Post("/accounts", s.handleCreateAccount)
	api.Get("/accounts/:accountId/memberships", s.handleAccountMemberships)
	api.Delete("/accounts/:accountId/memberships/:userId", s.handleDeleteMembership)
	api.Get("/accounts/:accountId/budgets", s.handleAccountBudgets)
	api.Get("/accounts/:accountId/expenses", s.handleAccountExpenses)
	api.Get("/accounts/:accountId/incomes", s.handleAccountIncomes)

	api.Get("/memberships", s.handleListMemberships)
	api.Post("/memberships", s.handleCreateMembership)
	api.Get("/memberships/my", s.handleMyMemberships)
	api.Post("/memberships/manager", s.handleAssignManager)

	api.Get("/budgets", s.handleListBudgets)
	api.Post("/budgets", s.handleCreateBudget)
	api.Patch("/budgets/:id", s.handleUpdateBudget)
	api.Delete("/budgets/:id", s.handleDeleteBudget)

	api.Get("/expenses", s.handleListExpenses)
	api.Post("/expenses", s.handleCreateExpense)
	api.Patch("/expenses/:id", s.handleUpdateExpense)
	api.Delete("/expenses/:id", s.handleDeleteExpense)

	api.Get("/incomes", s.handleListIncomes)
	api.Post("/incomes", s.handleCreateIncome)
	api.Patch("/incomes/:id", s.handleUpdateIncome)
	api.Delete("/incomes/:id", s.handleDeleteIncome)

	api.Get("/reports/:accountId/:year", s.handleYearReport)
	api.Get("/reports/:accountId/:year/:month", s.handleMonthReport)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.addr)
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "shutting down http server")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}
