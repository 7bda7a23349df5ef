package handlers

import (
	"edulearn-backend/middleware"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App, quizzes *services.QuizService, users *services.UserService) {
	group := app.Group("/api/quiz", middleware.UserContextMiddleware())

	group.Get("/:quizID", func(c *fiber.Ctx) error {
		user, err := currentUser(c, users)
		if err != nil {
			return failErr(c, err)
		}

		quiz, err := quizzes.GetQuiz(user, c.Params("quizID"))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(quiz)
	})

	group.Post("/:quizID/submit", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Answers []services.Answer `json:"answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := quizzes.Submit(userID, c.Params("quizID"), req.Answers)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(result)
	})
}
