package domain

import (
	"context"
	"time"
)

// Payment statuses.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Payment represents either the host's payment-link record for an event
// (PaymentLink set, status not meaningful) or a guest's payment row tracking
// a manual confirmation.
// swagger:model Payment
type Payment struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	// PaymentLink is the external payment URL (UPI/Paytm/GPay). Set on the
	// host's link record and copied onto guest confirmations.
	PaymentLink       *string   `json:"payment_link"`
	Amount            *float64  `json:"amount"`
	Description       *string   `json:"description"`
	Status            string    `json:"status"`
	ManuallyConfirmed bool      `json:"manually_confirmed"`
	ConfirmedBy       *string   `json:"confirmed_by"`
	ConfirmationNotes *string   `json:"confirmation_notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ValidPaymentStatus reports whether s is one of PENDING, PAID, FAILED, REFUNDED.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// EventPaymentSummary is the aggregate payment view for an event.
type EventPaymentSummary struct {
	EventID          string   `json:"event_id"`
	HasPaymentLink   bool     `json:"has_payment_link"`
	PaymentLink      *string  `json:"payment_link"`
	Amount           *float64 `json:"amount"`
	ConfirmedCount   int      `json:"confirmed_payments"`
	PendingCount     int      `json:"pending_payments"`
	RequesterHasPaid bool     `json:"user_has_paid"`
}

// PaymentRepository defines storage operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	// GetByEventAndUserWithStatuses returns the payment for (event, user)
	// whose status is in statuses, or ErrNotFound.
	GetByEventAndUserWithStatuses(ctx context.Context, eventID, userID string, statuses []string) (*Payment, error)
	// GetLinkRecord returns the host's payment-link row for the event
	// (user = host, payment_link not null), or ErrNotFound.
	GetLinkRecord(ctx context.Context, eventID, hostID string) (*Payment, error)
	// MarkConfirmed transitions an existing row to PAID in place.
	MarkConfirmed(ctx context.Context, paymentID, confirmedBy string, notes *string) (*Payment, error)
	UpdateStatus(ctx context.Context, paymentID, status string, notes *string) (*Payment, error)
	// CountConfirmed counts PAID, manually confirmed payments for the event.
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	CountByEventAndStatus(ctx context.Context, eventID, status string) (int, error)
	HasPaid(ctx context.Context, eventID, userID string) (bool, error)
	HasAnyForEvent(ctx context.Context, eventID, userID string) (bool, error)
}

// PaymentService defines the manual payment workflow.
type PaymentService interface {
	// AddPaymentLink creates the host's payment-link record for an event.
	AddPaymentLink(ctx context.Context, eventID, hostID, paymentLink string, amount *float64, description *string) (*Payment, error)
	// ConfirmPayment records a guest's manual payment confirmation.
	// An existing PENDING row for (event, user) is updated in place; a PAID
	// row makes the call fail with ErrConflict; without a host link record
	// the call fails with ErrNoPaymentLink.
	ConfirmPayment(ctx context.Context, eventID, userID string, notes *string) (*Payment, error)
	// UpdateStatus lets the event host override a payment's status.
	UpdateStatus(ctx context.Context, paymentID, hostID, status string, notes *string) (*Payment, error)
	// EventPaymentStatus returns the aggregate payment view, visible to the
	// host, to participants, or to anyone when the event is PUBLIC.
	EventPaymentStatus(ctx context.Context, eventID, userID string) (*EventPaymentSummary, error)
}
