package handlers

import (
	"strconv"

	"edulearn-backend/middleware"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGamificationRoutes(app *fiber.App, progression *services.ProgressionService, users *services.UserService) {
	group := app.Group("/api/gamification", middleware.UserContextMiddleware())

	group.Get("/stats", func(c *fiber.Ctx) error {
		user, err := currentUser(c, users)
		if err != nil {
			return failErr(c, err)
		}

		stats, err := progression.GetStats(user)
		if err != nil {
			return failErr(c, err)
		}

		return c.JSON(fiber.Map{
			"user": fiber.Map{
				"id":         user.ID,
				"full_name":  user.FullName,
				"photo_url":  user.PhotoURL,
				"is_premium": user.IsPremium,
			},
			"level": stats.Level,
			"stats": fiber.Map{
				"completed_lessons": stats.CompletedLessons,
				"streak_days":       stats.StreakDays,
				"weekly_xp":         stats.WeeklyXP,
				"today_xp":          stats.TodayXP,
			},
		})
	})

	group.Get("/xp-history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		history, err := progression.GetXPHistory(userID, limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(history)
	})

	group.Post("/daily-challenge", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := progression.ClaimDailyChallenge(userID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(result)
	})
}
