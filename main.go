package main

import (
	"log"
	"time"

	"datatalk/ai"
	"datatalk/cache"
	"datatalk/config"
	"datatalk/db"
	_ "datatalk/docs" // Swagger docs
	"datatalk/handlers"
	"datatalk/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg := config.GetConfig()

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize cache
	appCache := cache.New()

	// Initialize AI client
	aiService, err := ai.New(cfg.AIAPIKey, cfg.ModelName, cfg.AIBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	defer aiService.Close()

	// Identity client for the platform's session endpoint
	identity := service.NewIdentityClient(cfg.Platform)

	// Web search is optional
	var searchClient *service.SearchClient
	if cfg.SearchAPIKey != "" {
		searchClient = service.NewSearchClient(cfg.SearchAPIKey, appCache)
		log.Println("Web search enabled")
	} else {
		log.Println("SEARCH_API_KEY not set, web search disabled")
	}

	// Initialize handlers
	h := handlers.New(database, aiService, identity, searchClient, cfg)

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)
	r.POST("/api/login", h.LoginHandler)
	r.POST("/api/logout", h.LogoutHandler)
	r.POST("/api/chat", h.ChatHandler)
	r.GET("/api/chat/history", h.ChatHistoryHandler)
	r.GET("/api/services", h.ListServicesHandler)

	// Serve static files (for React app)
	r.Static("/static", "./frontend/build/static")
	r.StaticFile("/", "./frontend/build/index.html")
	r.NoRoute(func(c *gin.Context) {
		c.File("./frontend/build/index.html")
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
