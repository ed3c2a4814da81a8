// Package users holds the user record, its repositories, and the
// authentication orchestrator that drives registration, confirmation,
// login, password reset and two-factor flows.
package users

import "time"

type ConfirmationLevel string

const (
	// ConfirmationPending is set at registration and holds until the
	// account email is confirmed.
	ConfirmationPending ConfirmationLevel = "PENDING"
	// ConfirmationConfirmed is terminal; an account never reverts.
	ConfirmationConfirmed ConfirmationLevel = "CONFIRMED"
)

type TwoFactorAuth struct {
	Active bool `json:"active"`
}

// User is the credential record. ConfirmationToken is a single-use
// capability gating both email confirmation and password reset; it is
// replaced with a fresh random value by every transition that consumes it.
type User struct {
	ID                string
	Email             string
	FirstName         string
	LastName          string
	PasswordHash      string
	ConfirmationToken string
	ConfirmationLevel ConfirmationLevel
	IsAdmin           bool
	TwoFactorAuth     TwoFactorAuth
	TwoFactorSecret   string
	CreatedAt         time.Time
}

// Profile is the outward-facing projection of a User. It deliberately has
// no field for the password hash, the confirmation token or the two-factor
// secret, so no handler can leak them by serializing it.
type Profile struct {
	ID                string            `json:"id"`
	Email             string            `json:"email"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	ConfirmationLevel ConfirmationLevel `json:"confirmationLevel"`
	IsAdmin           bool              `json:"isAdmin"`
	TwoFactorAuth     TwoFactorAuth     `json:"twoFactorAuth"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ConfirmationLevel: u.ConfirmationLevel,
		IsAdmin:           u.IsAdmin,
		TwoFactorAuth:     u.TwoFactorAuth,
	}
}
