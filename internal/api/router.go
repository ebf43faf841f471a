package api

import (
	"namaz-assistant/docs"
	"namaz-assistant/internal/api/handlers"
	"namaz-assistant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	recommendHandler *handlers.RecommendHandler,
	languageHandler *handlers.LanguageHandler,
	appLogger *zap.Logger,
	configs ...fiber.Config,
) *fiber.App {
	cfg := fiber.Config{}
	if len(configs) > 0 {
		cfg = configs[0]
	}
	cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(middleware.RequestLogger(appLogger))

	_ = docs.SwaggerInfo // registers the swagger spec via init()
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/recommend", recommendHandler.Recommend)
	api.Post("/language", languageHandler.DetectLanguage)
	api.Post("/sessions/:id/messages", languageHandler.ObserveMessage)

	return app
}
