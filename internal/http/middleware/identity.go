package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// UserIDHeader and CompanyIDHeader carry the authenticated identity,
	// set by the upstream auth layer. This service trusts them blindly;
	// it must never be exposed without that proxy in front.
	UserIDHeader    = "X-User-ID"
	CompanyIDHeader = "X-Company-ID"

	UserIDLocalKey    = "user_id"
	CompanyIDLocalKey = "company_id"
)

// Identity requires the authenticated (user id, company id) pair on every
// request and stores it in context locals for handlers.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(UserIDHeader)
		companyID := c.Get(CompanyIDHeader)
		if userID == "" || companyID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity headers")
		}
		if _, err := uuid.Parse(userID); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
		}
		if _, err := uuid.Parse(companyID); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid company id")
		}

		c.Locals(UserIDLocalKey, userID)
		c.Locals(CompanyIDLocalKey, companyID)

		return c.Next()
	}
}

// UserID returns the authenticated user id stored by Identity.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}

// CompanyID returns the authenticated tenant id stored by Identity.
func CompanyID(c *fiber.Ctx) string {
	if v, ok := c.Locals(CompanyIDLocalKey).(string); ok {
		return v
	}
	return ""
}
