package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/grovelog/backend/internal/config"
	"github.com/grovelog/backend/internal/handlers"
	"github.com/grovelog/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	journalHandler *handlers.JournalHandler,
	storeHandler *handlers.StoreHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Journal engine - identity comes from the JWT sub claim
	journal := api.Group("/journal", middleware.JWTProtected(cfg))
	journal.Post("/entries", journalHandler.Submit)
	journal.Get("/entries", journalHandler.History)
	journal.Delete("/entries/:id", journalHandler.Delete)
	journal.Get("/progress", journalHandler.Progress)
	journal.Get("/analytics", journalHandler.Analytics)
	journal.Post("/store/purchase", storeHandler.Purchase)
}
