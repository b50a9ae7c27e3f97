package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"food-share-system/handlers"
	"food-share-system/middleware"
	"food-share-system/models"
	"food-share-system/services"
	"food-share-system/storage"
	"food-share-system/utils"
	"food-share-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, enough for post photos
	})

	app.Use(middleware.DeviceContextMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOriginsString,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With, X-Device-ID",
		MaxAge:       86400,
	}))

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "food_share.db"
	}

	store, err := storage.Open(dataPath)
	if err != nil {
		log.Fatal("failed to open local storage:", err)
	}
	defer store.Close()

	locations, err := models.LoadLocations(os.Getenv("LOCATIONS_PATH"))
	if err != nil {
		log.Fatal("failed to load location registry:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	remoteCfg := services.DefaultRemoteConfig()
	if ms := envInt("REMOTE_LATENCY_MS", 0); ms > 0 {
		latency := time.Duration(ms) * time.Millisecond
		remoteCfg.FetchLatency = latency
		remoteCfg.CreateLatency = latency
		remoteCfg.UpdateLatency = latency
	}
	if rate := envFloat("REMOTE_FAILURE_RATE", -1); rate >= 0 {
		remoteCfg.FailureRate = rate
	}
	remote := services.NewMockRemote(store, remoteCfg)

	postStore := services.NewPostStore(remote, locations, services.PostStoreConfig{
		SweepInterval: envSeconds("SWEEP_INTERVAL_S", 60),
		PollInterval:  envSeconds("POLL_INTERVAL_S", 30),
		PollJitter:    envSeconds("POLL_JITTER_S", 5),
		Retention:     time.Duration(envInt("RETENTION_MIN", 10)) * time.Minute,
	})

	engine, err := services.NewProfileStatsEngine(store, models.AchievementRules)
	if err != nil {
		log.Fatal("failed to initialize stats engine:", err)
	}

	proximity := services.NewProximityService(locations)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postStore.Load(ctx); err != nil {
		log.Fatal("failed to load posts from storage:", err)
	}

	sched, err := postStore.StartExpiryScheduler()
	if err != nil {
		log.Fatal("failed to start expiry scheduler:", err)
	}

	cfg := postStore.Config()
	go workers.PollPosts(ctx, postStore, cfg.PollInterval, cfg.PollJitter)

	handlers.SetupPostRoutes(app, postStore, engine, proximity)
	handlers.SetupProfileRoutes(app, engine)
	handlers.SetupReferenceRoutes(app, locations)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Expiry sweep running (every %s, retention %s)", cfg.SweepInterval, cfg.Retention)
	log.Printf("✅ Post refresh polling running (every %s, jitter %s)", cfg.PollInterval, cfg.PollJitter)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	postStore.Close()
	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using default %g", key, v, def)
		return def
	}
	return f
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}
