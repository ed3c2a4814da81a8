package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	result, err := s.users.ListUsers(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleMyProfile(c *fiber.Ctx) error {
	profile, err := s.users.GetProfile(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(profile)
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	profile, err := s.users.UpdateProfile(c.Context(), getClaims(c), req.FirstName, req.LastName)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(profile)
}
