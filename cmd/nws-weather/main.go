package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/nws-weather/internal/api/http"
	"github.com/i474232898/nws-weather/internal/config"
	"github.com/i474232898/nws-weather/internal/logging"
	"github.com/i474232898/nws-weather/internal/nws"
	"github.com/i474232898/nws-weather/internal/publish"
	"github.com/i474232898/nws-weather/internal/scheduler"
	"github.com/i474232898/nws-weather/internal/store"
	"github.com/i474232898/nws-weather/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sugar, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer sugar.Sync() //nolint:errcheck

	// Shared HTTP client for outbound NWS calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := nws.NewClient(httpClient, cfg.Location(), cfg.UserID,
		nws.WithBaseURL(cfg.APIBaseURL),
		nws.WithLogger(sugar),
		nws.WithRateLimit(cfg.RateLimitRPS, 1),
		nws.WithCacheTTL(cfg.StationCacheTTL),
		nws.WithObservationLimit(cfg.ObservationLimit),
	)

	memStore := store.NewMemoryStore(cfg.StaleAfter)

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	entity, err := weather.NewEntity(setupCtx, client, memStore, sugar, weather.EntityConfig{
		Name:     cfg.Name,
		Location: cfg.Location(),
		Station:  cfg.Station,
		Timeout:  cfg.RequestTimeout,
		Mode:     weather.ForecastMode(cfg.Mode),
		Units:    weather.UnitSystem(cfg.Units),
	})
	cancelSetup()
	if err != nil {
		sugar.Fatalw("failed to set up weather entity", "error", err)
	}
	sugar.Infow("weather entity ready", "name", entity.Name(), "station", entity.Station(), "unique_id", entity.UniqueID(), "mode", entity.Mode())

	if cfg.MQTTBroker != "" {
		topic := cfg.MQTTTopic
		if topic == "" {
			topic = publish.DefaultTopic(entity.Station())
		}
		pub, err := publish.NewMQTTPublisher(publish.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Topic:    topic,
			QoS:      1,
			Retained: true,
		}, sugar)
		if err != nil {
			sugar.Fatalw("failed to connect to mqtt broker", "error", err)
		}
		defer pub.Close()
		entity.OnUpdate(pub.Listener())
	}

	// Scheduler that periodically refreshes the entity.
	sched := scheduler.New([]scheduler.Updater{entity}, cfg.UpdateInterval, sugar)
	if err := sched.Start(); err != nil {
		sugar.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "nws-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "nws-weather",
			"station":   entity.Station(),
			"available": memStore.Available(entity.Station()),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, entity, memStore)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Errorw("fiber server stopped", "error", err)
		}
	}()
	sugar.Infow("listening", "port", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Errorw("error during shutdown", "error", err)
	}
}
