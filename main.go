package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solidity-quest-system/handlers"
	"solidity-quest-system/middleware"
	"solidity-quest-system/models"
	"solidity-quest-system/services"
	"solidity-quest-system/utils"
	"solidity-quest-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 5 * 1024 * 1024, // 5MB — source files only, no binaries
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
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
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// R2 is optional: without credentials artifacts land on local disk
	if err := utils.InitR2(); err != nil {
		log.Printf("⚠️  R2 disabled, storing artifacts locally: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.PlayerProfile{},
		&models.ProgressRecord{},
		&models.PlayerAchievement{},
		&models.GameSession{},
		&models.Player{},
		&models.ContractArtifact{},
		&models.Deployment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureArtifactDir(); err != nil {
		log.Fatal("failed to ensure artifact dir:", err)
	}

	// Redis is optional: without it leaderboard reads fall back to Postgres
	var rdb *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL:", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		log.Println("⚠️  REDIS_URL not set — leaderboard served from Postgres only")
	}

	leaderboardService := services.NewLeaderboardService(db, rdb)
	progressionService := services.NewProgressionService(db)
	progressionService.Leaderboard = leaderboardService
	profileService := services.NewProfileService(db)
	achievementService := services.NewAchievementService(db)
	sessionService := services.NewSessionService(db)

	compilerURL := os.Getenv("COMPILER_SERVICE_URL")
	if compilerURL == "" {
		log.Fatal("COMPILER_SERVICE_URL environment variable not set")
	}
	questServiceToken := os.Getenv("QUEST_SERVICE_TOKEN")
	if questServiceToken == "" {
		log.Fatal("QUEST_SERVICE_TOKEN environment variable not set")
	}
	compilerClient := services.NewCompilerServiceClient(compilerURL, questServiceToken)
	workbenchService := services.NewWorkbenchService(db, compilerClient)

	identityServiceURL := os.Getenv("IDENTITY_SERVICE_URL")
	if identityServiceURL == "" {
		log.Fatal("IDENTITY_SERVICE_URL environment variable not set")
	}

	syncWorker := workers.NewPlayerSyncWorker(db, identityServiceURL, "/api/v1/public/players", questServiceToken)

	deploymentSyncClient := workers.NewDeploymentSyncClient(db)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go workers.PollDeployments(ctx, deploymentSyncClient, 15*time.Second)

	go func() {
		log.Println("Starting Player Sync Worker...")
		syncWorker.Start(ctx)
	}()

	services.StartMaintenanceScheduler(sessionService, leaderboardService)

	// Warm the leaderboard cache at boot so restarts don't serve an empty board
	if err := leaderboardService.Rebuild(); err != nil {
		log.Printf("⚠️  Initial leaderboard rebuild failed: %v", err)
	}

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupProfileRoutes(app, profileService, achievementService)
	handlers.SetupLevelRoutes(app, progressionService, sessionService, leaderboardService)
	handlers.SetupWorkbenchRoutes(app, workbenchService)

	app.Static("/artifacts", "./artifacts")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Player Sync Worker running")
	log.Println("✅ Deployment polling running (every 15s)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
