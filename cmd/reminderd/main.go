package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorhill/cronexpr"

	"gatherly/config"
	emailadapter "gatherly/internal/adapters/email"
	"gatherly/internal/domain"
	"gatherly/internal/repository/postgres"
	"gatherly/internal/services"
)

// reminderd sends EVENT_REMINDER notifications for events starting within
// the next 24 hours, on the schedule given by REMINDER_CRON.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, "reminderd")

	expr, err := cronexpr.Parse(cfg.ReminderCron)
	if err != nil {
		log.Fatalf("Invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
	}

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
	notificationRepo := postgres.NewNotificationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Reminders are in-app notifications only, so the noop mailer suffices here.
	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{Provider: "noop"})
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	notifier := services.NewNotificationService(notificationRepo, eventRepo, rsvpRepo, userRepo, emailService, logger)
	reminder := services.NewReminderService(eventRepo, rsvpRepo, notifier, domain.SystemClock(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("reminderd started", "cron", cfg.ReminderCron)
	for {
		next := expr.Next(time.Now())
		select {
		case <-time.After(time.Until(next)):
			processed, err := reminder.Run(ctx)
			if err != nil {
				logger.Error("reminder run failed", "err", err)
				continue
			}
			logger.Info("reminder run complete", "events", processed)
		case <-ctx.Done():
			logger.Info("reminderd stopped")
			return
		}
	}
}
