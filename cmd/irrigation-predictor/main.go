package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/irrigation-predictor/internal/api/http"
	"github.com/i474232898/irrigation-predictor/internal/config"
	"github.com/i474232898/irrigation-predictor/internal/decisionlog"
	"github.com/i474232898/irrigation-predictor/internal/irrigation"
	"github.com/i474232898/irrigation-predictor/internal/model"
	"github.com/i474232898/irrigation-predictor/internal/mqttbridge"
	"github.com/i474232898/irrigation-predictor/internal/scheduler"
	"github.com/i474232898/irrigation-predictor/internal/store"
	"github.com/i474232898/irrigation-predictor/internal/weather"
	"github.com/i474232898/irrigation-predictor/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The service must not serve without a classifier.
	classifier, err := model.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("failed to load irrigation model: %v", err)
	}
	log.Printf("INFO: loaded model %s %s (%d trees)", classifier.Name(), classifier.Version(), classifier.NumTrees())

	// Shared HTTP client for outbound provider calls; the forecaster owns the deadline.
	httpClient := &http.Client{
		Timeout: cfg.ForecastTimeout,
	}

	provider, err := providers.New(cfg.WeatherProvider, httpClient, cfg.OpenWeatherAPIKey, cfg.WeatherAPIKey)
	if err != nil {
		log.Fatalf("failed to create weather provider: %v", err)
	}
	forecaster := weather.NewForecaster(provider, cfg.ForecastTimeout)

	decisions, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		// Logging is best-effort: keep deciding with an in-memory store.
		log.Printf("ERROR: failed to open decision store, falling back to memory: %v", err)
		decisions = store.NewMemoryStore(store.DefaultMemoryHistory)
	}
	defer decisions.Close()

	sinks := []decisionlog.Sink{
		decisionlog.NewCSVSink(cfg.DecisionLogPath),
		decisionlog.NewStoreSink(decisions),
	}
	if cfg.Influx.Enabled() {
		influx := decisionlog.NewInfluxSink(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		defer influx.Close()
		sinks = append(sinks, influx)
	}
	decisionLog := decisionlog.New(sinks...).WithTimeout(cfg.SinkTimeout)
	log.Printf("INFO: decision log sinks: %v", decisionLog.Sinks())

	service := irrigation.NewService(forecaster, classifier, decisionLog, cfg.Location,
		irrigation.WithDefaultUserID(cfg.DefaultUserID),
	)

	// Scheduler that periodically probes the decision store.
	sched := scheduler.New(decisions, cfg.HealthCheckInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	if cfg.MQTT.Enabled() {
		go runMQTT(ctx, cfg.MQTT, service)
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               httpapi.ServiceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// API routes.
	httpapi.RegisterRoutes(app, service, decisions, sched)

	log.Printf("INFO: listening on :%s (provider=%s location=%s)", cfg.Port, provider.Name(), cfg.Location.Key())
	go listen(app, ":"+cfg.Port, stop)

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// listen serves app and triggers shutdown if the server cannot start or stops.
func listen(app *fiber.App, addr string, stop context.CancelFunc) {
	if err := app.Listen(addr); err != nil {
		log.Printf("ERROR: fiber server stopped: %v", err)
		stop()
	}
}

func runMQTT(ctx context.Context, cfg config.MQTTConfig, decider mqttbridge.Decider) {
	bridgeCfg := mqttbridge.Config{
		Broker:        cfg.Broker,
		ClientID:      cfg.ClientID,
		Username:      cfg.Username,
		Password:      cfg.Password,
		SensorTopic:   cfg.SensorTopic,
		DecisionTopic: cfg.DecisionTopic,
	}

	client, err := mqttbridge.Connect(ctx, bridgeCfg)
	if err != nil {
		log.Printf("ERROR: mqtt bridge disabled: %v", err)
		return
	}
	if err := mqttbridge.New(client, decider, bridgeCfg).Run(ctx); err != nil {
		log.Printf("ERROR: mqtt bridge stopped: %v", err)
	}
}
