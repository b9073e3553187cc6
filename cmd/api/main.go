package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/config"
	"github.com/kumar-pranav/dojotrack-api/internal/database"
	"github.com/kumar-pranav/dojotrack-api/internal/handler"
	"github.com/kumar-pranav/dojotrack-api/internal/middleware"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/repository"
	"github.com/kumar-pranav/dojotrack-api/internal/router"
	"github.com/kumar-pranav/dojotrack-api/internal/service"
	cloud "github.com/kumar-pranav/dojotrack-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.DailyLog{}, &models.ProfilePhoto{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Event publishing degrades to a no-op when the broker is unreachable.
	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, events disabled")
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	rosterRepo := repository.NewRosterRepository(db)
	logRepo := repository.NewLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(redisClient)
	photoRepo := repository.NewPhotoRepository(db)

	events := service.NewEventPublisher(natsConn, logger)
	reconciler := service.NewReconciler(rosterRepo, logger)

	sessionService := service.NewSessionService(rosterRepo, logRepo, reconciler, events, logger)
	rosterService := service.NewRosterService(rosterRepo, validate, logger)
	historyService := service.NewHistoryService(logRepo, rosterRepo, events, redisClient, cfg.HistoryCacheTTL, logger)
	settingsService := service.NewSettingsService(settingsRepo, validate, logger)
	authService := service.NewAuthService(cfg.InstructorEmail, cfg.InstructorPasswordHash, cfg.JWTSecret, cfg.TokenTTL, validate, logger)
	photoService := service.NewPhotoService(uploader, photoRepo, cfg.PhotoMaxSizeMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		SessionHandler:  handler.NewSessionHandler(sessionService, logger),
		RosterHandler:   handler.NewRosterHandler(rosterService, logger),
		HistoryHandler:  handler.NewHistoryHandler(historyService, logger),
		SettingsHandler: handler.NewSettingsHandler(settingsService, logger),
		PhotoHandler:    handler.NewPhotoHandler(photoService, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
