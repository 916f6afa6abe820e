package main

import (
	"os"

	"github.com/coalhq/coal-server/internal/config"
	"github.com/coalhq/coal-server/internal/models"
	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/internal/utils"
	"github.com/coalhq/coal-server/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	utils.SetJWTSecret(cfg.JWT.Secret)

	db, err := models.Open(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	sweeper := services.NewLoanSweeper(db)
	sweeper.Start()
	defer sweeper.Stop()

	gin.SetMode(cfg.Server.Mode)
	r := buildRouter(db, cfg)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
