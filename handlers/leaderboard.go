package handlers

import (
	"strconv"

	"edulearn-backend/middleware"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService, users *services.UserService) {
	group := app.Group("/api/leaderboard", middleware.UserContextMiddleware())

	group.Get("/global", func(c *fiber.Ctx) error {
		user, err := currentUser(c, users)
		if err != nil {
			return failErr(c, err)
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))

		board, err := leaderboard.Global(c.Context(), user, limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(board)
	})

	group.Get("/weekly", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "10"))

		entries, err := leaderboard.Weekly(userID, limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})
}
