package main

import (
	"log"
	"strings"

	"opname-backend/internal/config"
	"opname-backend/internal/database"
	"opname-backend/internal/events"
	"opname-backend/internal/inventory"
	"opname-backend/internal/opname"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	hub := events.NewHub()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Product master
	api.Get("/products", inventory.ListProductsHandler())
	api.Get("/products/search", inventory.SearchProductsHandler())
	api.Post("/products", inventory.CreateProductHandler())
	api.Delete("/products/:id", inventory.DeleteProductHandler())

	// Opname sessions
	api.Get("/sessions", opname.ListSessionsHandler())
	api.Post("/sessions", opname.CreateSessionHandler())
	api.Get("/sessions/:id", opname.GetSessionHandler())
	api.Post("/sessions/:id/finalize", opname.FinalizeSessionHandler(cfg, hub))
	api.Post("/sessions/:id/toggle-lock", opname.ToggleLockHandler(hub))
	api.Delete("/sessions/:id", opname.DeleteSessionHandler(hub))

	// Count entries & reconciliation
	api.Put("/sessions/:id/entries", opname.SubmitEntryHandler(hub))
	api.Get("/sessions/:id/report", opname.GetSessionReportHandler())
	api.Get("/sessions/:id/report/export", opname.ExportSessionReportHandler())
	api.Get("/sessions/:id/events", opname.SessionEventsHandler(hub))

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
