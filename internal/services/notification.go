package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gatherly/internal/domain"
)

// statusDisplay maps an RSVP status to its human-readable form used in
// notification messages.
func statusDisplay(status string) string {
	switch status {
	case domain.RSVPStatusYes:
		return "Yes"
	case domain.RSVPStatusNo:
		return "No"
	case domain.RSVPStatusMaybe:
		return "Maybe"
	}
	return status
}

type notificationService struct {
	notificationRepo domain.NotificationRepository
	eventRepo        domain.EventRepository
	rsvpRepo         domain.RSVPRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	logger           *slog.Logger
}

// NewNotificationService creates a NotificationService. It implements the
// Notifier fan-out port used by the RSVP and reminder workflows.
func NewNotificationService(
	notificationRepo domain.NotificationRepository,
	eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		rsvpRepo:         rsvpRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		logger:           logger,
	}
}

func (s *notificationService) create(ctx context.Context, userID string, eventID *string, typ, title, message string, actionLink, actionText string) error {
	n := &domain.Notification{
		UserID:  userID,
		EventID: eventID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if actionLink != "" {
		n.ActionLink = &actionLink
	}
	if actionText != "" {
		n.ActionText = &actionText
	}
	return s.notificationRepo.Create(ctx, n)
}

// RSVPCreated notifies the host and the guest. The two creations are
// independent; a failure on one does not suppress the other.
func (s *notificationService) RSVPCreated(ctx context.Context, event *domain.Event, rsvp *domain.RSVP, guest *domain.User) error {
	display := statusDisplay(rsvp.Status)

	hostErr := s.create(ctx, event.HostID, &event.ID, domain.NotificationRSVPConfirmation,
		"New RSVP for your event",
		fmt.Sprintf("%s has RSVP'd %s to your event '%s'.", guest.Name, display, event.Title),
		fmt.Sprintf("/events/%s/guests", event.ID), "View Guest List")

	guestErr := s.create(ctx, guest.ID, &event.ID, domain.NotificationRSVPConfirmation,
		"RSVP Confirmation",
		fmt.Sprintf("You have RSVP'd %s to '%s'.", display, event.Title),
		fmt.Sprintf("/events/%s", event.ID), "View Event")

	return errors.Join(hostErr, guestErr)
}

func (s *notificationService) RSVPUpdated(ctx context.Context, event *domain.Event, rsvp *domain.RSVP, guest *domain.User) error {
	display := statusDisplay(rsvp.Status)

	hostErr := s.create(ctx, event.HostID, &event.ID, domain.NotificationRSVPUpdate,
		"RSVP Updated",
		fmt.Sprintf("%s has updated their RSVP to %s for your event '%s'.", guest.Name, display, event.Title),
		fmt.Sprintf("/events/%s/guests", event.ID), "View Guest List")

	guestErr := s.create(ctx, guest.ID, &event.ID, domain.NotificationRSVPUpdate,
		"RSVP Update Confirmation",
		fmt.Sprintf("You have updated your RSVP to %s for '%s'.", display, event.Title),
		fmt.Sprintf("/events/%s", event.ID), "View Event")

	return errors.Join(hostErr, guestErr)
}

func (s *notificationService) RSVPApproval(ctx context.Context, event *domain.Event, rsvp *domain.RSVP, approved bool) error {
	title, verb := "RSVP Approved", "approved"
	if !approved {
		title, verb = "RSVP Rejected", "rejected"
	}
	return s.create(ctx, rsvp.UserID, &event.ID, domain.NotificationRSVPUpdate,
		title,
		fmt.Sprintf("Your RSVP to '%s' has been %s.", event.Title, verb),
		fmt.Sprintf("/events/%s", event.ID), "View Event")
}

func (s *notificationService) EventReminder(ctx context.Context, event *domain.Event, userID string) error {
	return s.create(ctx, userID, &event.ID, domain.NotificationEventReminder,
		"Event Reminder",
		fmt.Sprintf("Reminder: '%s' is starting soon!", event.Title),
		fmt.Sprintf("/events/%s", event.ID), "View Event")
}

func (s *notificationService) List(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	notifications, total, err := s.notificationRepo.ListByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	count, err := s.notificationRepo.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return count, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) BroadcastHostMessage(ctx context.Context, eventID, hostID, title, message string) (int, error) {
	if title == "" || message == "" {
		return 0, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return 0, domain.ErrForbidden
	}

	host, err := s.userRepo.GetByID(ctx, hostID)
	hostName := "The host"
	if err == nil && host.Name != "" {
		hostName = host.Name
	}

	rsvps, err := s.rsvpRepo.ListApprovedYesByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("list approved rsvps: %w", err)
	}

	notified := 0
	for _, rsvp := range rsvps {
		if err := s.create(ctx, rsvp.UserID, &event.ID, domain.NotificationHostMessage,
			title, message, fmt.Sprintf("/events/%s", event.ID), "View Event"); err != nil {
			s.logger.Warn("host message notification failed", "event_id", eventID, "user_id", rsvp.UserID, "err", err)
			continue
		}
		notified++

		// Email delivery is best-effort on top of the persisted notification.
		guest, err := s.userRepo.GetByID(ctx, rsvp.UserID)
		if err != nil {
			s.logger.Warn("host message email skipped", "user_id", rsvp.UserID, "err", err)
			continue
		}
		data := &domain.HostMessageEmailData{
			Email:      guest.Email,
			GuestName:  guest.Name,
			HostName:   hostName,
			EventTitle: event.Title,
			Subject:    title,
			Message:    message,
		}
		if err := s.emailService.SendHostMessage(ctx, data); err != nil {
			s.logger.Warn("host message email failed", "user_id", rsvp.UserID, "err", err)
		}
	}
	return notified, nil
}
