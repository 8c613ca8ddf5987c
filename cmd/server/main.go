package main

import (
	"alcyxob/trainer-desk/internal/api"
	"alcyxob/trainer-desk/internal/availability"
	"alcyxob/trainer-desk/internal/config"
	"alcyxob/trainer-desk/internal/notify"
	"alcyxob/trainer-desk/internal/repository/mongo"
	"alcyxob/trainer-desk/internal/service"
	"alcyxob/trainer-desk/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Trainer Desk API
// @version 1.0
// @description Client records, billing cycles, weekly schedules and earnings for independent trainers.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	configureLogger(log, cfg.Log)
	log.Info("Starting Trainer Desk server...")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatalf("Invalid app timezone: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set")
	}
	engine, err := availability.NewEngine(cfg.Availability)
	if err != nil {
		log.Fatalf("Invalid availability settings: %v", err)
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("Database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		for collection, err := range mongo.EnsureIndexes(ctx, appDB) {
			log.WithError(err).WithField("collection", collection).Warn("Failed to ensure indexes")
		}
		log.Info("Index creation process completed")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, log)
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Warn("s3.bucket_name not set; statement export is disabled")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	paymentRepo := mongo.NewMongoPaymentRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	statementRepo := mongo.NewMongoStatementRepository(appDB)

	// --- Initialize Services ---
	clock := service.NewClock(loc)
	services := api.Services{
		Auth:     service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, log),
		Clients:  service.NewClientService(clientRepo, paymentRepo, scheduleRepo, progressRepo, cfg.Clients.DefaultActive, clock, log),
		Payments: service.NewPaymentService(clientRepo, paymentRepo, clock, log),
		Schedule: service.NewScheduleService(clientRepo, scheduleRepo, engine, cfg.Availability, log),
		Progress: service.NewProgressService(clientRepo, progressRepo, log),
		Earnings: service.NewEarningsService(clientRepo, paymentRepo, statementRepo, fileStorage, cfg.S3.URLExpiry, clock, log),
	}

	// --- Reminders ---
	if cfg.Reminders.Enabled {
		var mailer notify.Mailer = notify.LogMailer{Log: log}
		if cfg.SMTP.Host != "" {
			mailer = notify.NewSender(cfg.SMTP, log)
		} else {
			log.Warn("smtp.host not set; dues digests are logged instead of mailed")
		}
		reminders := service.NewReminderService(userRepo, clientRepo, paymentRepo, mailer, cfg.Reminders.ExpiringDays, clock, log)
		scheduler, err := reminders.Schedule(cfg.Reminders.Schedule)
		if err != nil {
			log.Fatalf("Invalid reminders.schedule: %v", err)
		}
		scheduler.Start()
		defer func() {
			<-scheduler.Stop().Done()
			log.Info("Reminder scheduler stopped")
		}()
		log.WithField("schedule", cfg.Reminders.Schedule).Info("Dues reminders enabled")
	}

	// --- Initialize Gin Engine ---
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))
	api.SetupRoutes(router, cfg.JWT.Secret, services, log)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exiting")
}

func configureLogger(log *logrus.Logger, cfg config.LogConfig) {
	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}
