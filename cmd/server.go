package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/oidc-lite/oidc-lite/pkg/config"
	"github.com/oidc-lite/oidc-lite/pkg/errx"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	container, err := NewContainer(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize container", zap.Error(err))
	}
	defer container.Cleanup()

	app := fiber.New(fiber.Config{
		AppName:               "oidc-lite",
		DisableStartupMessage: true,
		ErrorHandler:          errx.FiberErrorHandler,
		BodyLimit:             cfg.Server.BodyLimit,
		IdleTimeout:           cfg.Server.IdleTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-api-key, x-tenant-id, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "service": "oidc-lite"})
	})

	container.IDP.APIKeyHandlers.RegisterRoutes(app)
	container.IDP.OTPHandlers.RegisterRoutes(app)
	container.IDP.RefreshTokenHandlers.RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "route not found",
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	container.IDP.StartBackgroundServices(ctx)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("shutting down")
		container.IDP.StopBackgroundServices()
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
