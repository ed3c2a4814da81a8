package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/server/auth"
)

const claimsKey = "claims"

// requireToken verifies the bearer token and stores the decoded claims in
// the request locals. Authorization beyond token validity (full
// authentication, admin) is checked by the services.
func (s *Server) requireToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return writeError(c, common.ErrNotAuthenticated)
	}

	claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return writeError(c, err)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func getClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

func requireFull(claims *auth.Claims) error {
	return auth.RequireFullyAuthenticated(claims)
}
