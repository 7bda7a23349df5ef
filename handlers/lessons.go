package handlers

import (
	"edulearn-backend/middleware"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLessonRoutes(app *fiber.App, content *services.ContentService, progression *services.ProgressionService, users *services.UserService) {
	group := app.Group("/api/lessons", middleware.UserContextMiddleware())

	group.Get("/modules", func(c *fiber.Ctx) error {
		user, err := currentUser(c, users)
		if err != nil {
			return failErr(c, err)
		}

		modules, err := content.ListModules(user)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(modules)
	})

	group.Get("/modules/:moduleID/lessons", func(c *fiber.Ctx) error {
		user, err := currentUser(c, users)
		if err != nil {
			return failErr(c, err)
		}

		module, lessons, err := content.ModuleLessons(user, c.Params("moduleID"))
		if err != nil {
			return failErr(c, err)
		}

		return c.JSON(fiber.Map{
			"module": fiber.Map{
				"id":    module.ID,
				"title": module.Title,
				"emoji": module.Emoji,
			},
			"lessons": lessons,
		})
	})

	group.Get("/:lessonID", func(c *fiber.Ctx) error {
		user, err := currentUser(c, users)
		if err != nil {
			return failErr(c, err)
		}

		lesson, err := content.GetLesson(user, c.Params("lessonID"))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(lesson)
	})

	group.Post("/:lessonID/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := progression.CompleteLesson(userID, c.Params("lessonID"))
		if err != nil {
			return failErr(c, err)
		}
		if result.XPGained == 0 {
			return c.JSON(fiber.Map{
				"message":   "lesson already completed",
				"xp_gained": 0,
			})
		}
		return c.JSON(result)
	})
}
