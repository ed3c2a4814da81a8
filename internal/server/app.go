// Package server initializes and runs the main application server.
// It wires the database, auth primitives, mail delivery, report storage
// and the HTTP API, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/accounts"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/budgets"
	"github.com/ledgerkeep/ledgerkeep/internal/server/config"
	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
	"github.com/ledgerkeep/ledgerkeep/internal/server/httpapi"
	"github.com/ledgerkeep/ledgerkeep/internal/server/incomes"
	"github.com/ledgerkeep/ledgerkeep/internal/server/mail"
	"github.com/ledgerkeep/ledgerkeep/internal/server/memberships"
	"github.com/ledgerkeep/ledgerkeep/internal/server/reports"
	"github.com/ledgerkeep/ledgerkeep/internal/server/shared/db"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenManager([]byte(cfg.SecretKey), cfg.TokenValidityDuration, nil)
	hasher := auth.NewHasher(cfg.BcryptCost)
	totp := auth.NewTOTP(cfg.TOTPIssuer)

	var mailer users.Mailer
	if cfg.SendgridAPIKey == "" {
		mailer = mail.NewLogMailer(logger)
	} else {
		mailer = mail.NewSendgridMailer(cfg, logger)
	}

	userSvc := users.NewService(rm.Users(), hasher, tokens, totp, mailer, logger, cfg)
	accountSvc := accounts.NewService(rm.Accounts(), rm.Memberships(), logger)
	membershipSvc := memberships.NewService(rm.Memberships(), rm.Accounts(), rm.Users(), logger)
	budgetSvc := budgets.NewService(rm.Budgets(), rm.Accounts(), rm.Memberships(), logger)
	expenseSvc := expenses.NewService(rm.Expenses(), rm.Accounts(), rm.Memberships(), logger)
	incomeSvc := incomes.NewService(rm.Incomes(), rm.Accounts(), rm.Memberships(), logger)
	reportSvc := reports.NewService(rm.Accounts(), rm.Memberships(), rm.Incomes(), rm.Budgets(),
		rm.Expenses(), reports.NewPDFRenderer(), reports.NewS3Store(cfg), logger)

	srv := httpapi.NewServer(cfg, logger, tokens, userSvc, accountSvc, membershipSvc,
		budgetSvc, expenseSvc, incomeSvc, reportSvc)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
