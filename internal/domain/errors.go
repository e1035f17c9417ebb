package domain

import "errors"

// Sentinel errors shared across services and repositories. Delivery maps
// them to HTTP status codes; repositories translate driver errors into them.
var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the actor lacks the required relationship
	// (not host, not owner).
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a duplicate: a second RSVP for the same
	// (event, user), or re-confirming an already paid payment.
	ErrConflict = errors.New("conflict")
	// ErrNoPaymentLink indicates a payment confirmation was attempted for an
	// event whose host never added a payment link.
	ErrNoPaymentLink = errors.New("no payment link for this event")
	// ErrInvalidInput indicates malformed input that slipped past boundary
	// validation.
	ErrInvalidInput = errors.New("invalid input")
)
