// handlers/reference_routes.go
package handlers

import (
	"food-share-system/models"
	"food-share-system/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupReferenceRoutes exposes the static reference data the client renders
// pickers from, plus the image upload endpoint.
func SetupReferenceRoutes(app *fiber.App, locations []models.Location) {
	app.Get("/reference", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"locations":  locations,
			"food_types": models.FoodTypes,
			"tags":       models.PredefinedTags,
		})
	})

	app.Post("/uploads", func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "image file is required",
				"cause": err.Error(),
			})
		}

		name, err := utils.SaveImage(fileHeader)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "upload failed",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"url": "/uploads/" + name,
		})
	})
}
