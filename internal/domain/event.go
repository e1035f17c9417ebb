package domain

import (
	"context"
	"time"
)

// Event privacy levels. Privacy drives both visibility and RSVP
// auto-approval: PRIVATE events require explicit host approval per RSVP.
const (
	PrivacyPublic      = "PUBLIC"
	PrivacyPrivate     = "PRIVATE"
	PrivacySemiPrivate = "SEMI_PRIVATE"
)

// Event represents a hosted event guests can RSVP to.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Privacy     string    `json:"privacy"`
	// Capacity is the maximum number of guests; nil means unlimited.
	Capacity  *int      `json:"capacity"`
	HostID    string    `json:"host_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidPrivacy reports whether p is one of PUBLIC, PRIVATE, SEMI_PRIVATE.
func ValidPrivacy(p string) bool {
	return p == PrivacyPublic || p == PrivacyPrivate || p == PrivacySemiPrivate
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, description, location, privacy, hostID string, date time.Time, capacity *int, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		Privacy:     privacy,
		Capacity:    capacity,
		HostID:      hostID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventWithStats bundles an event with its derived attendance numbers.
// RSVPCount weights each YES RSVP as 1 plus its plus_ones. RemainingCapacity
// is nil for unlimited-capacity events and never negative.
type EventWithStats struct {
	Event             *Event `json:"event"`
	RSVPCount         int    `json:"rsvp_count"`
	RemainingCapacity *int   `json:"remaining_capacity"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListVisible returns the events visible to userID: all PUBLIC events,
	// all SEMI_PRIVATE events, and events the user hosts. An empty userID
	// means an unauthenticated caller and returns PUBLIC events only.
	ListVisible(ctx context.Context, userID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, title, description, location *string, date *time.Time, capacity *int, privacy *string) (*Event, error)
	Delete(ctx context.Context, id string) error
	// ListByDateBetween returns events with date in the open-ended window (from, to].
	ListByDateBetween(ctx context.Context, from, to time.Time) ([]*Event, error)
}

// EventService defines event-facing business logic.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	// GetEvent returns the event with attendance stats; userID is empty for
	// anonymous callers. Events outside the caller's visibility read as
	// ErrNotFound.
	GetEvent(ctx context.Context, eventID, userID string) (*EventWithStats, error)
	// VisibleEvents lists events visible to the caller; userID is empty for
	// anonymous callers.
	VisibleEvents(ctx context.Context, userID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, hostID string, title, description, location *string, date *time.Time, capacity *int, privacy *string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, hostID string) error
}
