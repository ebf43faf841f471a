package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"namaz-assistant/internal/api"
	"namaz-assistant/internal/api/handlers"
	"namaz-assistant/internal/repository"
	"namaz-assistant/internal/service"
	"namaz-assistant/pkg/config"
	"namaz-assistant/pkg/logger"
	"namaz-assistant/pkg/postgres"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title Namaz Assistant API
// @version 1.0
// @description FAQ matching and language identification for the namaz voice assistant

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting namaz assistant",
		zap.String("kb_source", string(cfg.Knowledge.Source)),
	)

	ctx := context.Background()

	var source service.KnowledgeSource
	switch cfg.Knowledge.Source {
	case config.KnowledgeSourcePostgres:
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		source = repository.NewKnowledgeRepository(db, logger.Component("knowledge"))
	default:
		source = repository.NewKnowledgeFileRepository(cfg.Knowledge.ModelPath, logger.Component("knowledge"))
	}

	recommender := service.NewRecommendationService(source, logger.Component("matcher"))
	languages := service.NewDefaultLanguageService(cfg.Language, logger.Component("language"))
	sessions := service.NewSessionService(languages, logger.Component("session"))

	recommendHandler := handlers.NewRecommendHandler(recommender, appLogger)
	languageHandler := handlers.NewLanguageHandler(languages, sessions, appLogger)

	app := api.SetupRouter(recommendHandler, languageHandler, logger.Component("http"), fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
