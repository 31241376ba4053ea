package httpapi

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
	"github.com/i474232898/irrigation-predictor/internal/store"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "irrigation-predictor"

// Decider runs the decision pipeline for one reading.
type Decider interface {
	Decide(ctx context.Context, r irrigation.Reading) irrigation.Decision
}

// LatestReader returns the most recently logged decision.
type LatestReader interface {
	Latest(ctx context.Context) (irrigation.Record, error)
}

// HealthReporter reports whether the decision store is reachable.
type HealthReporter interface {
	StoreHealthy() bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. health may be nil.
func RegisterRoutes(app *fiber.App, decider Decider, latest LatestReader, health HealthReporter) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Irrigation Predictor API is live!")
	})

	predict := func(c *fiber.Ctx) error {
		reading, err := irrigation.DecodeReading(c.Body())
		if err != nil {
			log.Printf("WARN: %s %s: unreadable body treated as empty reading: %v", c.Method(), c.Path(), err)
		}

		decision := decider.Decide(c.UserContext(), reading)
		return c.Status(fiber.StatusOK).JSON(decision)
	}
	// Field devices in the wild post to any of these.
	app.Post("/predict", predict)
	app.Post("/sensor-data", predict)
	app.Post("/data", predict)

	app.Get("/showData", func(c *fiber.Ctx) error {
		rec, err := latest.Latest(c.UserContext())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No data found"})
			}
			log.Printf("ERROR: failed to read latest decision: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
		}
		return c.JSON(rec)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		storeStatus := "up"
		if health != nil && !health.StoreHealthy() {
			storeStatus = "down"
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": ServiceName,
			"store":   storeStatus,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
