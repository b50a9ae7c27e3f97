// handlers/post_routes.go
package handlers

import (
	"strconv"
	"time"

	"food-share-system/models"
	"food-share-system/services"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	FoodType       string    `json:"food_type" validate:"required"`
	Quantity       int       `json:"quantity"`
	Unit           string    `json:"unit" validate:"required"`
	Tags           []string  `json:"tags"`
	LocationID     string    `json:"location_id" validate:"required"`
	LocationDetail string    `json:"location_detail"`
	ImageURL       string    `json:"image_url"`
	PickupTime     time.Time `json:"pickup_time" validate:"required"`
	ExpireTime     time.Time `json:"expire_time" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func SetupPostRoutes(app *fiber.App, store *services.PostStore, engine *services.ProfileStatsEngine, proximity *services.ProximityService) {
	app.Get("/posts", func(c *fiber.Ctx) error {
		posts, err := store.FetchAll(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}

		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr == nil && lngErr == nil {
			return c.JSON(proximity.Decorate(posts, lat, lng))
		}
		return c.JSON(posts)
	})

	app.Post("/posts", func(c *fiber.Ctx) error {
		var req createPostRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing required fields",
				"cause": err.Error(),
			})
		}

		post, err := store.CreatePost(c.UserContext(), models.PostDraft{
			FoodType:       req.FoodType,
			Quantity:       req.Quantity,
			Unit:           req.Unit,
			Tags:           req.Tags,
			LocationID:     req.LocationID,
			LocationDetail: req.LocationDetail,
			ImageURL:       req.ImageURL,
			PickupTime:     req.PickupTime,
			ExpireTime:     req.ExpireTime,
		})
		if err != nil {
			return respondError(c, err)
		}

		unlocked, statErr := engine.ApplyStatMutation(shareStatMutation(time.Now()))
		if statErr != nil {
			// The post committed; report it and let the client retry stats later.
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"post":        post,
				"stats_error": statErr.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"post":           post,
			"newly_unlocked": unlockedOrEmpty(unlocked),
		})
	})

	app.Patch("/posts/:id/status", func(c *fiber.Ctx) error {
		var req updateStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "status is required",
				"cause": err.Error(),
			})
		}

		post, err := store.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
		if err != nil {
			return respondError(c, err)
		}

		// A successful claim feeds the stats engine; reserving does not.
		if post.Status != models.StatusTaken {
			return c.JSON(fiber.Map{"post": post})
		}

		unlocked, statErr := engine.ApplyStatMutation(claimStatMutation(time.Now()))
		if statErr != nil {
			return c.JSON(fiber.Map{
				"post":        post,
				"stats_error": statErr.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"post":           post,
			"newly_unlocked": unlockedOrEmpty(unlocked),
		})
	})

	app.Get("/posts/nearby", func(c *fiber.Ctx) error {
		lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
		lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
		if latErr != nil || lngErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "lat and lng query parameters are required",
			})
		}

		nearest := proximity.NearestAvailable(store.Snapshot(), lat, lng)
		if nearest == nil {
			return c.JSON(fiber.Map{"nearby": nil})
		}
		return c.JSON(fiber.Map{"nearby": nearest})
	})
}

// claimStatMutation is the reward for taking a post: +50 exp, one more saved
// meal (~0.4 kg), and a night-owl action after 22:00.
func claimStatMutation(now time.Time) func(models.Stats) models.Stats {
	return func(s models.Stats) models.Stats {
		s.Exp += 50
		s.SavedCount++
		s.SavedWeight = roundTenth(s.SavedWeight + 0.4)
		if now.Hour() >= 22 {
			s.NightOwlActions++
		}
		return s
	}
}

// shareStatMutation is the reward for publishing a post.
func shareStatMutation(now time.Time) func(models.Stats) models.Stats {
	return func(s models.Stats) models.Stats {
		s.Exp += 30
		s.PostedCount++
		if now.Hour() >= 22 {
			s.NightOwlActions++
		}
		return s
	}
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

func unlockedOrEmpty(unlocked []models.AchievementRule) []models.AchievementRule {
	if unlocked == nil {
		return []models.AchievementRule{}
	}
	return unlocked
}
