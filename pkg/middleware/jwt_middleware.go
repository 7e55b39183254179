package middleware

import (
	"github.com/davedra/peerhabit-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected rejects requests without a valid bearer token and stashes the
// caller's id in locals for handlers that only need the identity.
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
