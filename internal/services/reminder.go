package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

// reminderWindow is how far ahead of an event's date reminders go out.
const reminderWindow = 24 * time.Hour

type reminderService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RSVPRepository
	notifier  domain.Notifier
	clock     domain.Clock
	logger    *slog.Logger
}

// NewReminderService creates the periodic reminder job. It does not dedup
// across runs; the scheduler invoking Run decides the cadence.
func NewReminderService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	notifier domain.Notifier,
	clock domain.Clock,
	logger *slog.Logger,
) domain.ReminderService {
	return &reminderService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
	}
}

func (s *reminderService) Run(ctx context.Context) (int, error) {
	now := s.clock.Now()
	events, err := s.eventRepo.ListByDateBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return 0, fmt.Errorf("list upcoming events: %w", err)
	}

	for _, event := range events {
		rsvps, err := s.rsvpRepo.ListApprovedYesByEventID(ctx, event.ID)
		if err != nil {
			s.logger.Warn("reminder rsvp listing failed", "event_id", event.ID, "err", err)
			continue
		}
		for _, rsvp := range rsvps {
			if err := s.notifier.EventReminder(ctx, event, rsvp.UserID); err != nil {
				s.logger.Warn("event reminder failed", "event_id", event.ID, "user_id", rsvp.UserID, "err", err)
			}
		}
	}
	return len(events), nil
}
