package main

import (
	"github.com/coalhq/coal-server/internal/config"
	"github.com/coalhq/coal-server/internal/handlers"
	"github.com/coalhq/coal-server/internal/middleware"
	"github.com/coalhq/coal-server/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// buildRouter wires middleware, handlers and the route table. Catalog
// reads, registration and login are public; everything that mutates state
// sits behind JWT auth.
func buildRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "coal"})
	})

	r.Static(cfg.Storage.BaseURL, cfg.Storage.UploadDir)

	userHandler := handlers.NewUserHandler(db, &cfg.JWT)
	studioHandler := handlers.NewStudioHandler(db)
	gameHandler := handlers.NewGameHandler(db, &cfg.Storage)
	libraryHandler := handlers.NewLibraryHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	recommendationHandler := handlers.NewRecommendationHandler(db)

	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		api.Use(rl.Middleware())
	}

	// Public routes
	api.POST("/users/register", userHandler.Register)
	api.POST("/users/login", userHandler.Login)

	api.GET("/games", gameHandler.List)
	api.GET("/games/search", gameHandler.Search)
	api.GET("/games/:id", gameHandler.GetByID)
	api.GET("/games/:id/reviews", gameHandler.Reviews)

	api.GET("/studios", studioHandler.List)
	api.GET("/studios/:id", studioHandler.GetByID)
	api.GET("/studios/:id/games", studioHandler.Games)
	api.GET("/studios/:id/reviews", studioHandler.Reviews)

	api.GET("/reviews/:id", reviewHandler.GetByID)
	api.GET("/reviews/game/:game_id", reviewHandler.ByGame)
	api.GET("/reviews/user/:user_id", reviewHandler.ByUser)

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/users", middleware.AdminRequired(), userHandler.List)
		protected.GET("/users/search", userHandler.Search)
		protected.GET("/users/:id", userHandler.GetByID)
		protected.GET("/users/:id/profile", userHandler.GetProfile)
		protected.GET("/users/:id/library", userHandler.GetLibrary)
		protected.GET("/users/:id/reviews", userHandler.GetReviews)
		protected.PATCH("/users/:id", userHandler.Update)
		protected.DELETE("/users/:id", userHandler.Delete)

		protected.POST("/games", gameHandler.Create)
		protected.PATCH("/games/:id", gameHandler.Update)
		protected.POST("/games/:id/thumbnail", gameHandler.UploadThumbnail)
		protected.DELETE("/games/:id", gameHandler.Delete)

		protected.POST("/studios", studioHandler.Create)
		protected.PATCH("/studios/:id", studioHandler.Update)
		protected.DELETE("/studios/:id", studioHandler.Delete)

		protected.POST("/library", libraryHandler.Acquire)
		protected.GET("/library/:user_id", libraryHandler.Get)
		protected.GET("/library/:user_id/loaned", libraryHandler.Loaned)
		protected.PATCH("/library/entry/:id", libraryHandler.Update)
		protected.POST("/library/entry/:id/playtime", libraryHandler.AddPlaytime)
		protected.DELETE("/library/entry/:id", libraryHandler.Remove)

		protected.POST("/reviews", reviewHandler.Create)
		protected.PATCH("/reviews/:id", reviewHandler.Update)
		protected.DELETE("/reviews/:id", reviewHandler.Delete)

		protected.GET("/recommendations/:user_id", recommendationHandler.ForUser)
	}

	return r
}
