package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"sedesupport/config"
	"sedesupport/internal/adapters/auth"
	"sedesupport/internal/adapters/directory"
	"sedesupport/internal/adapters/email"
	delivery "sedesupport/internal/delivery/http"
	"sedesupport/internal/delivery/http/controllers"
	"sedesupport/internal/delivery/http/middleware"
	"sedesupport/internal/repository/postgres"
	"sedesupport/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Sede Support API
// @version 1.0
// @description Admin API for managing sedes, personnel, roles, and scheduled technical support visits.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Repositories
	sedeRepo := postgres.NewSedeRepository(db)
	personRepo := postgres.NewPersonRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	// Services
	sedeService := services.NewSedeService(sedeRepo, serviceTimeout)
	personService := services.NewPersonService(personRepo, sedeRepo, roleRepo, serviceTimeout)
	roleService := services.NewRoleService(roleRepo, serviceTimeout)
	visitService := services.NewVisitService(visitRepo, sedeRepo, personRepo, nil, logger, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry, serviceTimeout)
	emailService := services.NewEmailService(mailer, renderer, logger)

	directoryClient := directory.NewClient(cfg.DirectoryBaseURL)
	importService := services.NewSedeImportService(directoryClient.Fetch, sedeRepo, 50, logger)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	sedeController := controllers.NewSedeController(logger, sedeService, importService)
	personController := controllers.NewPersonController(logger, personService)
	roleController := controllers.NewRoleController(logger, roleService)
	visitController := controllers.NewVisitController(logger, visitService)

	mux := delivery.NewRouter(logger, verifier,
		authController, sedeController, personController, roleController, visitController)

	handler := middleware.LoggingMiddleware(logger, mux)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	// Daily visit reminders
	reminderJob := services.NewReminderJob(visitService, personRepo, sedeRepo, emailService, nil, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := reminderJob.Run(ctx); err != nil {
			logger.Error("reminder job run degraded", "error", err)
		}
	}); err != nil {
		logger.Error("invalid reminder cron expression", "cron", cfg.ReminderCron, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
