package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"food-share-system/models"
	"food-share-system/services"
	"food-share-system/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *services.PostStore) {
	t.Helper()

	local, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	remote := services.NewMockRemote(local, services.RemoteConfig{})
	store := services.NewPostStore(remote, models.DefaultLocations, services.PostStoreConfig{})
	t.Cleanup(store.Close)

	engine, err := services.NewProfileStatsEngine(local, models.AchievementRules)
	require.NoError(t, err)

	app := fiber.New()
	SetupPostRoutes(app, store, engine, services.NewProximityService(models.DefaultLocations))
	SetupProfileRoutes(app, engine)
	return app, store
}

func postJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	return resp, parsed
}

func validCreateBody(now time.Time) map[string]any {
	return map[string]any{
		"food_type":       "Snacks & Bakery",
		"quantity":        3,
		"unit":            "pieces",
		"tags":            []string{"Vegetarian"},
		"location_id":     "main_lib",
		"location_detail": "1F lobby, on the bench",
		"image_url":       "/uploads/test.jpg",
		"pickup_time":     now.Add(10 * time.Minute).Format(time.RFC3339),
		"expire_time":     now.Add(2 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreatePostEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := postJSON(t, app, fiber.MethodPost, "/posts", validCreateBody(time.Now()))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	post, ok := body["post"].(map[string]any)
	require.True(t, ok, "response has a post object")
	assert.NotEmpty(t, post["id"])
	assert.Equal(t, models.StatusAvailable, post["status"])

	// The first published post unlocks first_share.
	unlocked, ok := body["newly_unlocked"].([]any)
	require.True(t, ok, "response has newly_unlocked")
	require.Len(t, unlocked, 1)
	rule := unlocked[0].(map[string]any)
	assert.Equal(t, "first_share", rule["id"])
}

func TestCreatePostEndpointValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing required fields fail before the store is touched.
	resp, _ := postJSON(t, app, fiber.MethodPost, "/posts", map[string]any{"quantity": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Shape is fine but the draft is rejected, with the offending field named.
	bad := validCreateBody(time.Now())
	bad["quantity"] = 0
	resp, body := postJSON(t, app, fiber.MethodPost, "/posts", bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "quantity", body["field"])
}

func TestUpdateStatusEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	_, created := postJSON(t, app, fiber.MethodPost, "/posts", validCreateBody(time.Now()))
	id := created["post"].(map[string]any)["id"].(string)

	resp, body := postJSON(t, app, fiber.MethodPatch, "/posts/"+id+"/status",
		map[string]any{"status": models.StatusReserved})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusReserved, body["post"].(map[string]any)["status"])

	resp, body = postJSON(t, app, fiber.MethodPatch, "/posts/"+id+"/status",
		map[string]any{"status": models.StatusTaken})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusTaken, body["post"].(map[string]any)["status"])

	// The claim fed the stats engine.
	req := httptest.NewRequest(fiber.MethodGet, "/user/profile", nil)
	profResp, err := app.Test(req, -1)
	require.NoError(t, err)
	var profile models.Profile
	require.NoError(t, json.NewDecoder(profResp.Body).Decode(&profile))
	assert.EqualValues(t, 1, profile.Stats.SavedCount)

	// Taken is terminal.
	resp, _ = postJSON(t, app, fiber.MethodPatch, "/posts/"+id+"/status",
		map[string]any{"status": models.StatusReserved})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateStatusEndpointUnknownPost(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := postJSON(t, app, fiber.MethodPatch, "/posts/no-such-id/status",
		map[string]any{"status": models.StatusTaken})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListPostsEndpointWithProximity(t *testing.T) {
	app, _ := newTestApp(t)
	_, _ = postJSON(t, app, fiber.MethodPost, "/posts", validCreateBody(time.Now()))

	// Standing at the Main Library, the post there is a short walk away.
	req := httptest.NewRequest(fiber.MethodGet, "/posts?lat=25.01615&lng=121.54055", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var posts []services.NearbyPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 0, posts[0].DistanceMeters)
	assert.Equal(t, 1, posts[0].WalkingMinutes)
}

func TestNearbyEndpointRequiresCoordinates(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/posts/nearby", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNearbyEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	_, created := postJSON(t, app, fiber.MethodPost, "/posts", validCreateBody(time.Now()))
	id := created["post"].(map[string]any)["id"].(string)

	path := fmt.Sprintf("/posts/nearby?lat=%f&lng=%f", 25.01615, 121.54055)
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Nearby *services.NearbyPost `json:"nearby"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Nearby)
	assert.Equal(t, id, body.Nearby.ID)
	assert.Less(t, body.Nearby.DistanceMeters, services.AlertDistanceMeters)
}
