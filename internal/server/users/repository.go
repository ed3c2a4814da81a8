package users

import "context"

// Repository is the credential store consumed by the orchestrator.
//
// Every conditional update is atomic at the store level: a rotation keyed on
// the previous token value succeeds for at most one concurrent caller, which
// is what makes confirmation tokens single-use without any locking in the
// service layer. Implementations return common.ErrNotFound when the
// condition matches no row and common.ErrDuplicateEmail on a unique
// violation of the email column.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)

	// UpdateProfile stores the mutable profile fields (names) for id and
	// returns the updated record.
	UpdateProfile(ctx context.Context, id, firstName, lastName string) (*User, error)

	// RotatePendingToken replaces the confirmation token of a still-PENDING
	// account identified by email. Confirmed accounts do not match, so the
	// caller cannot distinguish "unknown email" from "already confirmed".
	RotatePendingToken(ctx context.Context, email, newToken string) (*User, error)

	// ConsumeConfirmationToken is a compare-and-set: it matches only a
	// PENDING account holding exactly token, transitions it to CONFIRMED and
	// installs newToken in one conditional update.
	ConsumeConfirmationToken(ctx context.Context, token, newToken string) (*User, error)

	// RotateTokenByEmail replaces the confirmation token regardless of
	// confirmation level (password-reset request).
	RotateTokenByEmail(ctx context.Context, email, newToken string) (*User, error)

	// UpdatePasswordByToken stores a new password hash for the account
	// holding token and rotates the token in the same update.
	UpdatePasswordByToken(ctx context.Context, token, passwordHash, newToken string) error

	SetTwoFactorSecret(ctx context.Context, id, secret string) error
	ActivateTwoFactor(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
}
