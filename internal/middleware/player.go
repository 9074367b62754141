package middleware

import (
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/gofiber/fiber/v2"
)

// EnsurePlayerID stores the caller's player id in c.Locals("playerID"). The id
// comes from the X-Player-ID header or the playerId query parameter.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		if playerID == model.ComputerPlayerID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Player ID \"" + playerID + "\" is reserved.",
			})
		}

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
