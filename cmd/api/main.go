package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/anand-5154/edurise-server/internal/cache"
	"github.com/anand-5154/edurise-server/internal/config"
	"github.com/anand-5154/edurise-server/internal/database"
	"github.com/anand-5154/edurise-server/internal/modules/admin"
	"github.com/anand-5154/edurise-server/internal/modules/course"
	"github.com/anand-5154/edurise-server/internal/modules/enrollment"
	"github.com/anand-5154/edurise-server/internal/modules/user"
	"github.com/anand-5154/edurise-server/internal/notification"
	"github.com/anand-5154/edurise-server/internal/payment"
	"github.com/anand-5154/edurise-server/internal/server"
	"github.com/anand-5154/edurise-server/internal/session"
	"github.com/anand-5154/edurise-server/internal/storage"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		if cfg == nil {
			logger.Error("failed to load configuration")
			os.Exit(1)
		}
		logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("successfully connected to postgres database")

		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("successfully connected to redis")

		// --- Shared infrastructure ---
		notifier := notification.NewSMTPEmailSender(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.From, logger)
		sessions := session.NewPostgresProvider(dbPool, session.Config{
			SlidingTTL:  7 * 24 * time.Hour,
			AbsoluteTTL: 30 * 24 * time.Hour,
		})
		gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

		uploader, err := storage.NewClient(cfg.Minio, logger)
		if err != nil {
			logger.Error("failed to connect to object storage", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully connected to object storage")

		// --- Module Initialization (Bottom-Up) ---
		userRepo := user.NewRepository(dbPool)
		userService := user.NewService(&user.Config{
			Repo:     userRepo,
			Sessions: sessions,
			Notifier: notifier,
			Logger:   logger,
			Config:   cfg,
		})

		courseRepo := course.NewRepository(dbPool)
		courseService := course.NewService(&course.Config{
			Repo:     courseRepo,
			Accounts: userRepo,
			Logger:   logger,
		})

		enrollmentRepo := enrollment.NewRepository(dbPool)
		enrollmentService := enrollment.NewService(&enrollment.Config{
			Repo:    enrollmentRepo,
			Catalog: courseRepo,
			Gateway: gateway,
			Logger:  logger,
		})

		adminRepo := admin.NewRepository(dbPool)
		adminService := admin.NewService(&admin.Config{
			Repo:     adminRepo,
			Accounts: userRepo,
			Notifier: notifier,
			Cache:    redisClient,
			Logger:   logger,
		})

		router := server.New(cfg, logger, server.Services{
			User:       userService,
			Course:     courseService,
			Enrollment: enrollmentService,
			Admin:      adminService,
			Uploader:   uploader,
		})

		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", options.Port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", options.Port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
