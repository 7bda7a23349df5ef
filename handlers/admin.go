package handlers

import (
	"strconv"

	"edulearn-backend/middleware"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, content *services.ContentService, payments *services.PaymentService, users *services.UserService) {
	group := app.Group("/api/admin", middleware.UserContextMiddleware())

	group.Get("/stats", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		stats, err := users.GetDashboardStats()
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(stats)
	})

	group.Get("/users", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}
		skip, _ := strconv.Atoi(c.Query("skip", "0"))
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		list, err := users.ListUsers(skip, limit)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(list)
	})

	group.Post("/users/:userID/grant-premium", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		var req struct {
			Days int `json:"days"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.Days <= 0 {
			req.Days = 30
		}

		user, err := payments.GrantPremium(c.Params("userID"), req.Days)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"premium_until": user.PremiumUntil,
		})
	})

	group.Post("/users/:userID/revoke-premium", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		if err := payments.RevokePremium(c.Params("userID")); err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	group.Post("/users/:userID/toggle-admin", func(c *fiber.Ctx) error {
		admin, err := requireAdmin(c, users)
		if err != nil {
			return failErr(c, err)
		}

		isAdmin, err := users.ToggleAdmin(admin.ID, c.Params("userID"))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "is_admin": isAdmin})
	})

	// Content management
	group.Get("/modules", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		modules, err := content.ListAllModules()
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(modules)
	})

	group.Post("/modules", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		var req services.ModuleInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		module, err := content.CreateModule(req)
		if err != nil {
			return failErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(module)
	})

	group.Delete("/modules/:moduleID", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		if err := content.DeleteModule(c.Params("moduleID")); err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	group.Post("/lessons", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		var req services.LessonInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		lesson, err := content.CreateLesson(req)
		if err != nil {
			return failErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(lesson)
	})

	group.Delete("/lessons/:lessonID", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		if err := content.DeleteLesson(c.Params("lessonID")); err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	group.Post("/quizzes", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		var req services.QuizInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		quiz, err := content.CreateQuiz(req)
		if err != nil {
			return failErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(quiz)
	})

	group.Post("/quizzes/:quizID/questions", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		var req services.QuestionInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		question, err := content.AddQuestion(c.Params("quizID"), req)
		if err != nil {
			return failErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(question)
	})

	// Manual sweep trigger, the scheduler runs the same thing daily
	group.Post("/premium/expiry-sweep", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		count, err := payments.RunExpirySweep()
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{"downgraded": count})
	})
}
