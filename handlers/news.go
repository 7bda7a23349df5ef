package handlers

import (
	"strconv"

	"edulearn-backend/middleware"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNewsRoutes(app *fiber.App, news *services.NewsService, users *services.UserService) {
	group := app.Group("/api/news", middleware.UserContextMiddleware())

	group.Get("/", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		items, err := news.List(limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(items)
	})

	group.Get("/:newsID", func(c *fiber.Ctx) error {
		item, err := news.Get(c.Params("newsID"))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(item)
	})

	group.Post("/", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		var req services.NewsInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		item, err := news.Create(req)
		if err != nil {
			return failErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	group.Post("/:newsID/toggle-pin", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		item, err := news.TogglePin(c.Params("newsID"))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(item)
	})

	group.Delete("/:newsID", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		if err := news.Delete(c.Params("newsID")); err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
