package auth

import "github.com/ledgerkeep/ledgerkeep/internal/common"

// RequireFullyAuthenticated rejects sessions that have passed the password
// check but not yet completed two-factor verification.
func RequireFullyAuthenticated(claims *Claims) error {
	if claims == nil || !claims.IsFullyAuthenticated {
		return common.ErrNotAuthorized
	}
	return nil
}

// RequireAdmin rejects non-administrator sessions.
func RequireAdmin(claims *Claims) error {
	if claims == nil || !claims.IsAdmin {
		return common.ErrNotAuthorized
	}
	return nil
}
