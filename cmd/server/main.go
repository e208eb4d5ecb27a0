package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workstream-api/internal/balancer"
	"github.com/yukikurage/workstream-api/internal/config"
	"github.com/yukikurage/workstream-api/internal/constants"
	"github.com/yukikurage/workstream-api/internal/database"
	"github.com/yukikurage/workstream-api/internal/directory"
	"github.com/yukikurage/workstream-api/internal/handlers"
	"github.com/yukikurage/workstream-api/internal/repository"
	"github.com/yukikurage/workstream-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load the identity directory
	dir, err := loadDirectory(cfg)
	if err != nil {
		log.Fatalf("Failed to load directory: %v", err)
	}

	// Initialize services
	repo := repository.NewWorkstreamRepository(database.GetDB())
	workstreamService, err := services.NewWorkstreamService(repo, dir, balancer.Options{
		Ceiling:   cfg.BalancerLoadCeiling,
		Increment: cfg.BalancerLoadIncrement,
	})
	if err != nil {
		log.Fatalf("Failed to load workstream: %v", err)
	}

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Services{
		Auth:          services.NewAuthService(dir),
		Workstream:    workstreamService,
		Notifications: services.NewNotificationService(repository.NewNotificationRepository(database.GetDB())),
		AI:            aiService,
	})

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadDirectory(cfg *config.Config) (*directory.Directory, error) {
	if cfg.DirectoryFile == "" {
		log.Println("DIRECTORY_FILE not set, using the built-in directory")
		return directory.Default()
	}
	return directory.Load(cfg.DirectoryFile)
}
