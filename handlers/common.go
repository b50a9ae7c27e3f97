package handlers

import (
	"errors"

	"food-share-system/models"
	"food-share-system/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// respondError maps the core error taxonomy onto HTTP responses: validation
// problems are 400 with the failing field, vanished posts are 404, simulated
// remote failures are 503 with a retry hint.
func respondError(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Message,
			"field": verr.Field,
		})
	}

	var nferr *models.NotFoundError
	if errors.As(err, &nferr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "post no longer exists",
			"cause": nferr.Error(),
		})
	}

	var perr *models.PersistenceError
	if errors.As(err, &perr) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "temporary failure, please retry",
			"cause": perr.Error(),
		})
	}

	if errors.Is(err, services.ErrStoreClosed) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "service shutting down",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
		"cause": err.Error(),
	})
}
