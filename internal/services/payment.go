package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type paymentService struct {
	eventRepo   domain.EventRepository
	paymentRepo domain.PaymentRepository
}

// NewPaymentService creates a PaymentService with the given repositories.
func NewPaymentService(eventRepo domain.EventRepository, paymentRepo domain.PaymentRepository) domain.PaymentService {
	return &paymentService{
		eventRepo:   eventRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *paymentService) AddPaymentLink(ctx context.Context, eventID, hostID, paymentLink string, amount *float64, description *string) (*domain.Payment, error) {
	if paymentLink == "" {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	// The link record is metadata, not a transaction; status stays at the
	// PENDING default.
	payment := &domain.Payment{
		EventID:     eventID,
		UserID:      hostID,
		PaymentLink: &paymentLink,
		Amount:      amount,
		Description: description,
		Status:      domain.PaymentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	return payment, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, eventID, userID string, notes *string) (*domain.Payment, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// An existing PAID row means this confirmation already happened; an
	// existing PENDING row becomes the update target instead of a new row.
	var target *domain.Payment
	existing, err := s.paymentRepo.GetByEventAndUserWithStatuses(ctx, eventID, userID,
		[]string{domain.PaymentStatusPaid, domain.PaymentStatusPending})
	switch {
	case err == nil:
		if existing.Status == domain.PaymentStatusPaid {
			return nil, domain.ErrConflict
		}
		target = existing
	case errors.Is(err, domain.ErrNotFound):
		// No prior payment row; a new one will be inserted.
	default:
		return nil, fmt.Errorf("get payment: %w", err)
	}

	linkRecord, err := s.paymentRepo.GetLinkRecord(ctx, eventID, event.HostID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoPaymentLink
		}
		return nil, fmt.Errorf("get payment link record: %w", err)
	}

	if target != nil {
		confirmed, err := s.paymentRepo.MarkConfirmed(ctx, target.ID, userID, notes)
		if err != nil {
			return nil, fmt.Errorf("mark payment confirmed: %w", err)
		}
		return confirmed, nil
	}

	now := time.Now()
	confirmedBy := userID
	payment := &domain.Payment{
		EventID:           eventID,
		UserID:            userID,
		PaymentLink:       linkRecord.PaymentLink,
		Amount:            linkRecord.Amount,
		Status:            domain.PaymentStatusPaid,
		ManuallyConfirmed: true,
		ConfirmedBy:       &confirmedBy,
		ConfirmationNotes: notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// A concurrent confirmation won the race on the unique index.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, paymentID, hostID, status string, notes *string) (*domain.Payment, error) {
	if !domain.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, payment.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.paymentRepo.UpdateStatus(ctx, paymentID, status, notes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return updated, nil
}

func (s *paymentService) EventPaymentStatus(ctx context.Context, eventID, userID string) (*domain.EventPaymentSummary, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Visible to the host, to participants, or to anyone for PUBLIC events.
	if event.HostID != userID && event.Privacy != domain.PrivacyPublic {
		if userID == "" {
			return nil, domain.ErrForbidden
		}
		participant, err := s.paymentRepo.HasAnyForEvent(ctx, eventID, userID)
		if err != nil {
			return nil, fmt.Errorf("check participant: %w", err)
		}
		if !participant {
			return nil, domain.ErrForbidden
		}
	}

	summary := &domain.EventPaymentSummary{EventID: eventID}

	linkRecord, err := s.paymentRepo.GetLinkRecord(ctx, eventID, event.HostID)
	switch {
	case err == nil:
		summary.HasPaymentLink = true
		summary.PaymentLink = linkRecord.PaymentLink
		summary.Amount = linkRecord.Amount
	case errors.Is(err, domain.ErrNotFound):
		// No link yet; counts are still meaningful.
	default:
		return nil, fmt.Errorf("get payment link record: %w", err)
	}

	confirmed, err := s.paymentRepo.CountConfirmed(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count confirmed payments: %w", err)
	}
	summary.ConfirmedCount = confirmed

	pending, err := s.paymentRepo.CountByEventAndStatus(ctx, eventID, domain.PaymentStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending payments: %w", err)
	}
	summary.PendingCount = pending

	if userID != "" {
		paid, err := s.paymentRepo.HasPaid(ctx, eventID, userID)
		if err != nil {
			return nil, fmt.Errorf("check user payment: %w", err)
		}
		summary.RequesterHasPaid = paid
	}
	return summary, nil
}
