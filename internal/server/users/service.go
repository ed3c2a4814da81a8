package users

import (
	"context"
	"errors"
	"strings"

	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
	"github.com/ledgerkeep/ledgerkeep/internal/server/config"
)

// confirmation tokens carry 32 bytes (256 bits) of entropy
const confirmationTokenBytes = 32

// Mailer is the outgoing-email collaborator. Sends are fire-and-forget from
// the orchestrator's point of view: failures are logged, never returned.
type Mailer interface {
	SendConfirmationEmail(ctx context.Context, user *User, redirectURL string) error
	SendPasswordResetLink(ctx context.Context, user *User, redirectURL string) error
}

// Service is the authentication orchestrator. It is stateless between
// calls; all durable state lives in the Repository.
type Service struct {
	repo           Repository
	hasher         *auth.Hasher
	tokens         *auth.TokenManager
	totp           *auth.TOTP
	mailer         Mailer
	logger         logging.Logger
	defaultIsAdmin bool
}

func NewService(repo Repository, hasher *auth.Hasher, tokens *auth.TokenManager,
	totp *auth.TOTP, mailer Mailer, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:           repo,
		hasher:         hasher,
		tokens:         tokens,
		totp:           totp,
		mailer:         mailer,
		logger:         logger.With("module", "users_service"),
		defaultIsAdmin: cfg.DefaultIsAdmin,
	}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	RedirectURL string `json:"redirectUrl"`
}

// LoginResult is what a successful password check returns: the profile plus
// a session token. The token is partial when two-factor auth is active.
type LoginResult struct {
	Profile
	Token string `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) newConfirmationToken() (string, error) {
	return common.MakeRandHexString(confirmationTokenBytes)
}

// Register creates a PENDING account and triggers the confirmation email.
// Returns common.ErrDuplicateEmail when the normalized email is taken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	email := normalizeEmail(req.Email)

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return common.ErrDuplicateEmail
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	token, err := s.newConfirmationToken()
	if err != nil {
		return err
	}

	user := &User{
		Email:             email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PasswordHash:      hash,
		ConfirmationToken: token,
		ConfirmationLevel: ConfirmationPending,
		IsAdmin:           s.defaultIsAdmin,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return err
	}

	if err := s.mailer.SendConfirmationEmail(ctx, created, req.RedirectURL); err != nil {
		s.logger.Error(ctx, "confirmation email send failed", "error", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return nil
}

// ResendConfirmationEmail rotates the confirmation token of a still-PENDING
// account and resends the email. An already-confirmed account is
// indistinguishable from an unknown one: both yield common.ErrNotFound.
func (s *Service) ResendConfirmationEmail(ctx context.Context, email, redirectURL string) error {
	token, err := s.newConfirmationToken()
	if err != nil {
		return err
	}

	user, err := s.repo.RotatePendingToken(ctx, normalizeEmail(email), token)
	if err != nil {
		return err
	}

	if err := s.mailer.SendConfirmationEmail(ctx, user, redirectURL); err != nil {
		s.logger.Error(ctx, "confirmation email send failed", "error", err)
	}

	return nil
}

// ConfirmAccount consumes a confirmation token: the account transitions to
// CONFIRMED and the token is replaced, so resubmitting the same token always
// yields common.ErrNotFound.
func (s *Service) ConfirmAccount(ctx context.Context, token string) error {
	next, err := s.newConfirmationToken()
	if err != nil {
		return err
	}

	user, err := s.repo.ConsumeConfirmationToken(ctx, token, next)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "account confirmed", "user_id", user.ID)
	return nil
}

// Login verifies credentials in a fixed order: account existence, then
// password, then confirmation status. The error reports the first check
// that failed, so a wrong password against an unknown email yields
// ErrUserNotFound, never ErrInvalidPassword.
//
// When two-factor auth is active for the account, the minted token carries
// isFullyAuthenticated=false and must be upgraded via CompleteTwoFactorLogin.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidPassword
	}

	if user.ConfirmationLevel == ConfirmationPending {
		return nil, common.ErrAccountNotConfirmed
	}

	fullyAuthenticated := !user.TwoFactorAuth.Active

	token, err := s.tokens.Mint(user.ID, string(user.ConfirmationLevel), user.IsAdmin, fullyAuthenticated)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Profile: user.Profile(), Token: token}, nil
}

// RequestNewPassword rotates the confirmation token (reused as the reset
// capability) and sends a reset link. Confirmation status is irrelevant.
func (s *Service) RequestNewPassword(ctx context.Context, email, redirectURL string) error {
	token, err := s.newConfirmationToken()
	if err != nil {
		return err
	}

	user, err := s.repo.RotateTokenByEmail(ctx, normalizeEmail(email), token)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetLink(ctx, user, redirectURL); err != nil {
		s.logger.Error(ctx, "reset link send failed", "error", err)
	}

	return nil
}

// ResetPassword stores a new password for the account holding the reset
// token and rotates the token, making the link single-use.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	next, err := s.newConfirmationToken()
	if err != nil {
		return err
	}

	return s.repo.UpdatePasswordByToken(ctx, token, hash, next)
}

// InitTwoFactorAuth generates a fresh shared secret for the user,
// overwriting any prior secret that was never activated, and returns the
// enrollment QR image. It does not activate two-factor auth.
func (s *Service) InitTwoFactorAuth(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	secret, err := s.totp.GenerateSecret(user.Email)
	if err != nil {
		return "", err
	}

	image, err := s.totp.EnrollmentImage(secret, user.Email)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetTwoFactorSecret(ctx, user.ID, secret); err != nil {
		return "", err
	}

	return image, nil
}

// CompleteTwoFactorAuth finishes enrollment: the submitted code proves the
// authenticator app holds the secret, after which two-factor auth is active
// for every future login.
func (s *Service) CompleteTwoFactorAuth(ctx context.Context, userID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.TwoFactorSecret == "" {
		return common.ErrNo2FA
	}

	if !s.totp.ValidateCode(user.TwoFactorSecret, code) {
		return common.ErrInvalid2FAToken
	}

	return s.repo.ActivateTwoFactor(ctx, user.ID)
}

// VerifyTwoFactorToken is a read-only possession check for sessions that
// are already fully authenticated. No state is mutated.
func (s *Service) VerifyTwoFactorToken(ctx context.Context, userID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.TwoFactorAuth.Active {
		return common.ErrNo2FA
	}

	if !s.totp.ValidateCode(user.TwoFactorSecret, code) {
		return common.ErrInvalid2FAToken
	}

	return nil
}

// CompleteTwoFactorLogin upgrades a partial session to a full one. The
// check order is fixed: existence, two-factor active, session not already
// full, code validity. A session that already carries
// isFullyAuthenticated=true is rejected regardless of the code.
func (s *Service) CompleteTwoFactorLogin(ctx context.Context, userID string, isFullyAuthenticated bool, code string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if !user.TwoFactorAuth.Active {
		return "", common.ErrNo2FA
	}

	if isFullyAuthenticated {
		return "", common.ErrAlreadyAuthenticated
	}

	if !s.totp.ValidateCode(user.TwoFactorSecret, code) {
		return "", common.ErrInvalid2FAToken
	}

	return s.tokens.Mint(user.ID, string(user.ConfirmationLevel), user.IsAdmin, true)
}

// ListUsers returns the profiles of every registered user. Admin only.
func (s *Service) ListUsers(ctx context.Context, claims *auth.Claims) ([]Profile, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}
	if err := auth.RequireAdmin(claims); err != nil {
		return nil, err
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(list))
	for _, u := range list {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// GetProfile returns the caller's own profile.
func (s *Service) GetProfile(ctx context.Context, claims *auth.Claims) (*Profile, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

// UpdateProfile replaces the caller's name fields. Credentials, admin flag
// and two-factor state are not reachable through this path.
func (s *Service) UpdateProfile(ctx context.Context, claims *auth.Claims, firstName, lastName string) (*Profile, error) {
	if err := auth.RequireFullyAuthenticated(claims); err != nil {
		return nil, err
	}

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, common.ErrInvalidInput
	}

	user, err := s.repo.UpdateProfile(ctx, claims.Subject, firstName, lastName)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}
