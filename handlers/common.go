package handlers

import (
	"errors"

	"edulearn-backend/models"
	"edulearn-backend/services"

	"github.com/gofiber/fiber/v2"
)

// failErr maps a service error onto its HTTP status in one place so every
// route renders the taxonomy the same way. premium_required keeps its
// structured error code so the client can show an upsell.
func failErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrModuleNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrNewsNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrPremiumRequired):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "premium_required",
			"message": "This content is available for Premium only",
		})

	case errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrPendingPayment),
		errors.Is(err, services.ErrAlreadyReviewed),
		errors.Is(err, services.ErrSelfAdminToggle):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrUnknownPlan):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
			"cause": err.Error(),
		})
	}
}

// currentUser loads the authoritative user aggregate for the id the
// gateway forwarded. Premium and admin flags always come from the DB row,
// never from headers.
func currentUser(c *fiber.Ctx, users *services.UserService) (*models.User, error) {
	userID, _ := c.Locals("user_id").(string)
	return users.GetUser(userID)
}

// requireAdmin loads the current user and rejects non-admins.
func requireAdmin(c *fiber.Ctx, users *services.UserService) (*models.User, error) {
	user, err := currentUser(c, users)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	return user, nil
}
