package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

type emailRequest struct {
	Email       string `json:"email"`
	RedirectURL string `json:"redirectUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type twoFactorRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req users.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}
	if req.Email == "" || req.Password == "" {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.users.Register(c.Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	result, err := s.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleResendConfirmation(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.users.ResendConfirmationEmail(c.Context(), req.Email, req.RedirectURL); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleConfirmAccount(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.users.ConfirmAccount(c.Context(), token); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleRequestNewPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.users.RequestNewPassword(c.Context(), req.Email, req.RedirectURL); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}
	if req.Token == "" || req.Password == "" {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.users.ResetPassword(c.Context(), req.Token, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleTwoFactorLogin(c *fiber.Ctx) error {
	var req twoFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	claims := getClaims(c)
	token, err := s.users.CompleteTwoFactorLogin(c.Context(), claims.Subject, claims.IsFullyAuthenticated, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) handleTwoFactorInit(c *fiber.Ctx) error {
	claims := getClaims(c)
	if err := requireFull(claims); err != nil {
		return writeError(c, err)
	}

	image, err := s.users.InitTwoFactorAuth(c.Context(), claims.Subject)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"image": image})
}

func (s *Server) handleTwoFactorActivate(c *fiber.Ctx) error {
	var req twoFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	claims := getClaims(c)
	if err := requireFull(claims); err != nil {
		return writeError(c, err)
	}

	if err := s.users.CompleteTwoFactorAuth(c.Context(), claims.Subject, req.Code); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleTwoFactorVerify(c *fiber.Ctx) error {
	var req twoFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	claims := getClaims(c)
	if err := requireFull(claims); err != nil {
		return writeError(c, err)
	}

	if err := s.users.VerifyTwoFactorToken(c.Context(), claims.Subject, req.Code); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
