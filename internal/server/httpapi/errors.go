// Package httpapi exposes the application over HTTP using fiber. Handlers
// bind JSON, delegate to the services and translate the error taxonomy to
// status codes; they hold no business rules of their own.
package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
)

// statusFromError maps domain sentinels to HTTP status codes. Anything
// outside the taxonomy is a systemic fault and reads as 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrDuplicateEntry),
		errors.Is(err, common.ErrNo2FA),
		errors.Is(err, common.ErrInvalid2FAToken),
		errors.Is(err, common.ErrAlreadyAuthenticated),
		errors.Is(err, common.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrNotAuthenticated),
		errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrNotAuthorized):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		// Driver and infrastructure details stay out of responses.
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
