package main

import (
	"blockgen"
	"blockgen/internal/api/handler/endpoints"
	"blockgen/internal/api/models"
	"blockgen/internal/api/service"
	"blockgen/pkg"
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	blockgen.InitConfig(".env")
	blockgen.ConnectAll()
	gin.SetMode(gin.ReleaseMode)

	if blockgen.GetConfig().Mode == "dev" {
		if err := blockgen.DB.AutoMigrate(
			&models.User{},
			&models.Project{},
			&models.Artifact{},
		); err != nil {
			blockgen.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		blockgen.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(blockgen.GetConfig().ApiPort))
	pkg.AssertNoError(err)
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	initAPI(router, service.NewGenerationService())

	blockgen.Logger.Debug().Msgf("Starting blockgen API on port %s", blockgen.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		blockgen.Logger.Fatal().Msg(err.Error())
	}
}

func initAPI(router *graceful.Graceful, generation *service.GenerationService) {
	endpoints.AuthHandler(router)
	endpoints.GenerateHandler(router, generation)
	endpoints.ProjectHandler(router, generation)
	endpoints.MailHandler(router)
}
