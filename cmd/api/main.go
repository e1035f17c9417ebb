package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatherly/config"
	authadapter "gatherly/internal/adapters/auth"
	emailadapter "gatherly/internal/adapters/email"
	delivery "gatherly/internal/delivery/http"
	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/repository/postgres"
	"gatherly/internal/services"
)

// @title           Gatherly API
// @version         1.0
// @description     Event management backend: events, RSVPs with host approval, manual payment confirmation, and notifications.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, "api")

	db, err := postgres.Connect(cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	hasher := authadapter.NewBcryptHasher(12)
	issuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}
	renderer := emailadapter.NewTemplateRenderer()

	emailService := services.NewEmailService(mailer, renderer)
	notificationService := services.NewNotificationService(notificationRepo, eventRepo, rsvpRepo, userRepo, emailService, logger)
	eventService := services.NewEventService(eventRepo, rsvpRepo, 10*time.Second)
	rsvpService := services.NewRSVPService(eventRepo, rsvpRepo, userRepo, notificationService, logger)
	paymentService := services.NewPaymentService(eventRepo, paymentRepo)
	userService := services.NewUserService(userRepo, hasher, issuer)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, userService),
		Event:        controllers.NewEventController(logger, eventService),
		RSVP:         controllers.NewRSVPController(logger, rsvpService),
		Payment:      controllers.NewPaymentController(logger, paymentService),
		Notification: controllers.NewNotificationController(logger, notificationService),
	}, verifier, logger)

	handler := middleware.RequestID(middleware.LoggingMiddleware(logger, mux))
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("server exited")
}
