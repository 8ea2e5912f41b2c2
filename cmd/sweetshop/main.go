package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"sweetshop/internal/config"
	"sweetshop/internal/http/handlers"
	applog "sweetshop/internal/log"
	"sweetshop/internal/notify"
	"sweetshop/internal/repos"
	"sweetshop/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Secret: []byte(cfg.JWTSecret), TokenTTL: cfg.TokenTTL}

	// Notifier is constructed once from config and injected; lifecycle
	// operations never read mail settings at call time.
	notifier, err := notify.New(cfg.SMTP)
	if err != nil {
		log.Printf("[warn] mail disabled: %v", err)
		notifier = notify.Nop{}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc, notifier)
	requireUser := handlers.RequireUser(authSvc)
	adminOnly := handlers.AdminOnly()

	// Auth (login throttled)
	auth := app.Group("/api/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)

	// Catalog
	sweets := app.Group("/api/sweets", requireUser)
	sweets.Get("/", deps.SweetHandler.List)
	sweets.Get("/search", deps.SweetHandler.Search)
	sweets.Post("/", adminOnly, deps.SweetHandler.Create)
	sweets.Get("/:id", deps.SweetHandler.Get)
	sweets.Put("/:id", adminOnly, deps.SweetHandler.Update)
	sweets.Delete("/:id", adminOnly, deps.SweetHandler.Delete)
	sweets.Post("/:id/purchase", deps.SweetHandler.Purchase)
	sweets.Post("/:id/restock", adminOnly, deps.SweetHandler.Restock)

	// Orders
	orders := app.Group("/api/orders", requireUser)
	orders.Post("/", deps.OrderHandler.Create)
	orders.Get("/", deps.OrderHandler.ListMine)
	orders.Get("/admin", adminOnly, deps.OrderHandler.ListAll)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Put("/:id", adminOnly, deps.OrderHandler.Update)
	orders.Delete("/:id", deps.OrderHandler.Cancel)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
