package main

import (
	"log"
	"os"

	"productr/config"
	"productr/db"
	"productr/mailer"
	"productr/otp"
	"productr/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	config.InitLogger(cfg.Logger)
	defer zap.L().Sync()

	// Initialize database
	db.InitDatabase(cfg.Database.Path)

	// Create uploads directory if it doesn't exist
	if _, err := os.Stat(cfg.Server.UploadDir); os.IsNotExist(err) {
		os.Mkdir(cfg.Server.UploadDir, 0755)
	}

	// OTP registry with expiry sweep
	codes := otp.NewStore(cfg.OTP.TTL)
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.OTP.SweepInterval, func() {
		if removed := codes.Sweep(); removed > 0 {
			zap.S().Infof("OTP sweep removed %d expired entries", removed)
		}
	}); err != nil {
		zap.S().Fatalf("invalid OTP sweep interval: %s", err)
	}
	sched.Start()
	defer sched.Stop()

	// Background mail dispatch
	sender := mailer.New(mailer.SMTPSettings{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	sender.Start()
	defer sender.Stop()

	// Create Fiber app. High body limit is needed for base64 image payloads.
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Server.BodyLimitMB * 1024 * 1024,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Serve uploaded images
	app.Static("/uploads", "./"+cfg.Server.UploadDir)

	// Setup routes
	routes.SetupRoutes(app, codes, sender)

	// Start server
	zap.S().Infof("Server is running on http://localhost:%s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zap.S().Fatalf("server stopped: %s", err)
	}
}
