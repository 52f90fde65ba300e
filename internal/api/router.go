package api

import (
	"skillscope/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(
	analysisHandler *handlers.AnalysisHandler,
	taxonomyHandler *handlers.TaxonomyHandler,
	healthHandler *handlers.HealthHandler,
) *fiber.App {
	app := fiber.New(fiber.Config{
		// CV uploads are small, but scanned PDFs can run into megabytes.
		BodyLimit: 20 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	app.Get("/", healthHandler.Info)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api/v1")
	api.Post("/extract", analysisHandler.Extract)
	api.Post("/analyze", analysisHandler.Analyze)
	api.Post("/analyze/pdf", analysisHandler.AnalyzePDF)
	api.Get("/reports/:id", analysisHandler.GetReport)
	api.Get("/skills/:uri", taxonomyHandler.GetSkill)
	api.Get("/occupations/:uri", taxonomyHandler.GetOccupation)

	return app
}
