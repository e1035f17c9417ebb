package domain

import (
	"context"
	"time"
)

// RSVP statuses.
const (
	RSVPStatusYes   = "YES"
	RSVPStatusNo    = "NO"
	RSVPStatusMaybe = "MAYBE"
)

// RSVP represents a guest's response to an event. A user has at most one
// RSVP per event; the storage layer enforces the (event, user) uniqueness.
// swagger:model RSVP
type RSVP struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	UserID   string `json:"user_id"`
	Status   string `json:"status"`
	PlusOnes int    `json:"plus_ones"`
	// IsApproved is set at creation from the event privacy: PRIVATE events
	// start unapproved and require explicit host approval.
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewRSVP returns a new RSVP with the given fields. ID is typically set by the repository on create.
func NewRSVP(eventID, userID, status string, plusOnes int, isApproved bool, createdAt, updatedAt time.Time) *RSVP {
	return &RSVP{
		EventID:    eventID,
		UserID:     userID,
		Status:     status,
		PlusOnes:   plusOnes,
		IsApproved: isApproved,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// ValidRSVPStatus reports whether s is one of YES, NO, MAYBE.
func ValidRSVPStatus(s string) bool {
	return s == RSVPStatusYes || s == RSVPStatusNo || s == RSVPStatusMaybe
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Create inserts the RSVP. Returns ErrConflict when an RSVP already
	// exists for (event, user); the unique constraint is the authoritative
	// duplicate guard.
	Create(ctx context.Context, rsvp *RSVP) error
	GetByID(ctx context.Context, id string) (*RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RSVP, error)
	// ListApprovedByEventID returns approved RSVPs of any status, i.e. the
	// guest list visible to non-hosts.
	ListApprovedByEventID(ctx context.Context, eventID string) ([]*RSVP, error)
	// ListApprovedYesByEventID returns RSVPs with status YES and
	// is_approved true, i.e. the reminder and broadcast audience.
	ListApprovedYesByEventID(ctx context.Context, eventID string) ([]*RSVP, error)
	// CountYesWeighted returns the number of YES RSVPs counting each as
	// 1 plus its plus_ones.
	CountYesWeighted(ctx context.Context, eventID string) (int, error)
	Update(ctx context.Context, rsvpID string, status *string, plusOnes *int) (*RSVP, error)
	SetApproved(ctx context.Context, rsvpID string, approved bool) (*RSVP, error)
}

// RSVPService defines the RSVP workflow: creation with privacy-gated
// auto-approval, owner updates, and host approval, each triggering
// notification fan-out on actual state changes only.
type RSVPService interface {
	CreateRSVP(ctx context.Context, eventID, userID, status string, plusOnes int) (*RSVP, error)
	UpdateRSVP(ctx context.Context, rsvpID, actorID string, status *string, plusOnes *int) (*RSVP, error)
	ApproveRSVP(ctx context.Context, rsvpID, actorID string) (*RSVP, error)
	RejectRSVP(ctx context.Context, rsvpID, actorID string) (*RSVP, error)
	// GuestList returns the RSVPs of an event visible to the caller: the
	// host sees all of them; for PRIVATE events only approved guests see
	// the approved list; otherwise any authenticated caller sees the
	// approved list.
	GuestList(ctx context.Context, eventID, callerID string) ([]*RSVP, error)
}
