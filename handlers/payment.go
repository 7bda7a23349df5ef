package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"edulearn-backend/middleware"
	"edulearn-backend/models"
	"edulearn-backend/services"
	"edulearn-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupPaymentRoutes(app *fiber.App, payments *services.PaymentService, users *services.UserService) {
	group := app.Group("/api/payment", middleware.UserContextMiddleware())

	group.Get("/plans", func(c *fiber.Ctx) error {
		plans := payments.Plans
		return c.JSON(fiber.Map{
			"plans": []fiber.Map{
				{
					"type":     models.PlanMonthly,
					"name":     "Monthly",
					"price":    plans.MonthlyPrice,
					"duration": "30 days",
				},
				{
					"type":     models.PlanYearly,
					"name":     "Yearly",
					"price":    plans.YearlyPrice,
					"duration": "365 days",
					"discount": "17%",
				},
			},
			"payment_info": fiber.Map{
				"card_number":    plans.CardNumber,
				"card_holder":    plans.CardHolder,
				"admin_username": plans.AdminContact,
			},
		})
	})

	group.Post("/upload-proof", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
		}
		if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only images are accepted"})
		}

		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := fmt.Sprintf("payments/%s/%s%s", userID, uuid.NewString(), ext)

		url, err := utils.UploadPaymentProof(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "upload failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"url": url})
	})

	group.Post("/request", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			PlanType models.PlanType `json:"plan_type"`
			ProofURL string          `json:"proof_url"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		payment, err := payments.CreateRequest(userID, req.PlanType, req.ProofURL)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{
			"payment_id": payment.ID,
			"status":     payment.Status,
			"message":    "Payment is under review. You will be notified shortly.",
		})
	})

	group.Get("/status", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		status, err := payments.Status(userID)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(status)
	})

	// Admin review queue
	group.Get("/admin/pending", func(c *fiber.Ctx) error {
		if _, err := requireAdmin(c, users); err != nil {
			return failErr(c, err)
		}

		pending, err := payments.PendingPayments()
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(pending)
	})

	group.Post("/admin/:paymentID/review", func(c *fiber.Ctx) error {
		admin, err := requireAdmin(c, users)
		if err != nil {
			return failErr(c, err)
		}

		var req struct {
			Approved bool    `json:"approved"`
			Note     *string `json:"note"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		payment, err := payments.Review(c.Params("paymentID"), admin.ID, req.Approved, req.Note)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"status":  payment.Status,
		})
	})
}
