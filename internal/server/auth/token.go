// Package auth implements the authentication primitives of the server:
// password hashing, session token minting/verification, TOTP enrollment and
// validation, and the authorization guard consumed by the HTTP layer.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

// Claims is the session token payload. IsFullyAuthenticated distinguishes a
// token issued after the password check alone from one issued after
// two-factor completion.
type Claims struct {
	jwt.RegisteredClaims
	ConfirmationLevel    string `json:"confirmationLevel"`
	IsAdmin              bool   `json:"isAdmin"`
	IsFullyAuthenticated bool   `json:"isFullyAuthenticated"`
}

// RevocationCheck reports whether a structurally valid token has been
// revoked out of band. Stateless deployments pass nil.
type RevocationCheck func(claims *Claims) bool

type TokenManager struct {
	secret   []byte
	validity time.Duration
	revoked  RevocationCheck
}

// NewTokenManager creates a minter/verifier for HS256 session tokens.
// A validity of zero produces tokens without an expiry claim.
func NewTokenManager(secret []byte, validity time.Duration, revoked RevocationCheck) *TokenManager {
	return &TokenManager{secret: secret, validity: validity, revoked: revoked}
}

func (m *TokenManager) Mint(userID, confirmationLevel string, isAdmin, isFullyAuthenticated bool) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		ConfirmationLevel:    confirmationLevel,
		IsAdmin:              isAdmin,
		IsFullyAuthenticated: isFullyAuthenticated,
	}
	if m.validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.validity))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the signature and the structure of the payload: a non-empty
// subject and a defined confirmation level. It is a structural check, not a
// revocation check, unless a RevocationCheck was injected. Any failure is
// reported as common.ErrInvalidToken so callers treat the request as
// unauthenticated rather than as a systemic fault.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" || claims.ConfirmationLevel == "" {
		return nil, common.ErrInvalidToken
	}

	if m.revoked != nil && m.revoked(claims) {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
