// handlers/profile_routes.go
package handlers

import (
	"food-share-system/models"
	"food-share-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, engine *services.ProfileStatsEngine) {
	app.Get("/user/profile", func(c *fiber.Ctx) error {
		return c.JSON(engine.Profile())
	})

	app.Get("/user/achievements", func(c *fiber.Ctx) error {
		profile := engine.Profile()

		var response []fiber.Map
		for _, rule := range engine.Rules() {
			response = append(response, fiber.Map{
				"id":          rule.ID,
				"title":       rule.Title,
				"description": rule.Description,
				"icon":        rule.Icon,
				"color":       rule.Color,
				"unlocked":    profile.HasAchievement(rule.ID),
			})
		}
		return c.JSON(response)
	})

	app.Get("/user/impact", func(c *fiber.Ctx) error {
		profile := engine.Profile()
		return c.JSON(fiber.Map{
			"saved_count":     profile.Stats.SavedCount,
			"saved_weight_kg": profile.Stats.SavedWeight,
			"carbon_kgco2e":   engine.CarbonImpact(),
		})
	})

	app.Put("/user/settings", func(c *fiber.Ctx) error {
		var settings models.Settings
		if err := c.BodyParser(&settings); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := engine.UpdateSettings(settings); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "settings saved"})
	})

	app.Get("/user/theme", func(c *fiber.Ctx) error {
		theme, err := engine.Theme()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"theme": theme})
	})

	app.Put("/user/theme", func(c *fiber.Ctx) error {
		var req struct {
			Theme string `json:"theme" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := engine.SetTheme(req.Theme); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"theme": req.Theme})
	})
}
