package domain

import (
	"context"
	"time"
)

// Notification types.
const (
	NotificationEventInvite         = "EVENT_INVITE"
	NotificationRSVPConfirmation    = "RSVP_CONFIRMATION"
	NotificationRSVPUpdate          = "RSVP_UPDATE"
	NotificationEventReminder       = "EVENT_REMINDER"
	NotificationPaymentConfirmation = "PAYMENT_CONFIRMATION"
	NotificationHostMessage         = "HOST_MESSAGE"
	NotificationEventUpdate         = "EVENT_UPDATE"
	NotificationSystem              = "SYSTEM"
)

// Notification is an in-app message for a user. Created only by fan-out in
// response to a domain event; mutated only by the recipient marking it read.
// swagger:model Notification
type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	EventID    *string   `json:"event_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	ActionLink *string   `json:"action_link"`
	ActionText *string   `json:"action_text"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotificationRepository defines storage operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUserID returns the user's notifications, newest first.
	ListByUserID(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	// MarkRead marks the given notifications read, restricted to rows owned
	// by userID. Returns the number of rows updated.
	MarkRead(ctx context.Context, userID string, ids []string) (int, error)
	// MarkAllRead marks all of the user's unread notifications read.
	MarkAllRead(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Notifier is the fan-out port the workflows call after a state mutation.
// Implementations persist one notification per recipient; failures are
// best-effort and must not roll back the triggering mutation.
type Notifier interface {
	// RSVPCreated notifies the host and the guest about a new RSVP.
	RSVPCreated(ctx context.Context, event *Event, rsvp *RSVP, guest *User) error
	// RSVPUpdated notifies the host and the guest about a status change.
	RSVPUpdated(ctx context.Context, event *Event, rsvp *RSVP, guest *User) error
	// RSVPApproval notifies the guest about an approval or rejection.
	RSVPApproval(ctx context.Context, event *Event, rsvp *RSVP, approved bool) error
	// EventReminder notifies one approved guest that the event is near.
	EventReminder(ctx context.Context, event *Event, userID string) error
}

// NotificationService exposes the recipient-scoped notification operations
// plus the host broadcast.
type NotificationService interface {
	Notifier

	List(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	// BroadcastHostMessage creates a HOST_MESSAGE notification for every
	// approved YES guest of the event and emails them best-effort. Only the
	// host may call it. Returns the number of guests notified.
	BroadcastHostMessage(ctx context.Context, eventID, hostID, title, message string) (int, error)
}

// ReminderService is the periodic batch job that fans out event reminders.
type ReminderService interface {
	// Run selects events with date in (now, now+24h] and sends an
	// EVENT_REMINDER to every approved YES RSVP. Returns the number of
	// events processed. Running twice in the same window re-sends
	// reminders; dedup is the scheduler's concern.
	Run(ctx context.Context) (int, error)
}
