package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

type rsvpService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RSVPRepository
	userRepo  domain.UserRepository
	notifier  domain.Notifier
	logger    *slog.Logger
}

// NewRSVPService creates an RSVPService. The notifier is called synchronously
// after each committed mutation; its failures are logged, never propagated.
func NewRSVPService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
	logger *slog.Logger,
) domain.RSVPService {
	return &rsvpService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *rsvpService) CreateRSVP(ctx context.Context, eventID, userID, status string, plusOnes int) (*domain.RSVP, error) {
	if !domain.ValidRSVPStatus(status) || plusOnes < 0 {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Fast duplicate check; the unique constraint on (event_id, user_id) is
	// the authoritative guard under concurrency.
	if _, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	now := time.Now()
	rsvp := domain.NewRSVP(eventID, userID, status, plusOnes, event.Privacy != domain.PrivacyPrivate, now, now)
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}

	guest := s.lookupGuest(ctx, userID)
	if err := s.notifier.RSVPCreated(ctx, event, rsvp, guest); err != nil {
		s.logger.Warn("rsvp created notification failed", "rsvp_id", rsvp.ID, "err", err)
	}
	return rsvp, nil
}

func (s *rsvpService) UpdateRSVP(ctx context.Context, rsvpID, actorID string, status *string, plusOnes *int) (*domain.RSVP, error) {
	if status != nil && !domain.ValidRSVPStatus(*status) {
		return nil, domain.ErrInvalidInput
	}
	if plusOnes != nil && *plusOnes < 0 {
		return nil, domain.ErrInvalidInput
	}

	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	if rsvp.UserID != actorID {
		return nil, domain.ErrForbidden
	}

	// Diff against the pre-update snapshot so a no-op write or a pure
	// plus-ones edit does not fan out a status notification.
	statusChanged := status != nil && *status != rsvp.Status

	updated, err := s.rsvpRepo.Update(ctx, rsvpID, status, plusOnes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update rsvp: %w", err)
	}

	if statusChanged {
		event, err := s.eventRepo.GetByID(ctx, updated.EventID)
		if err != nil {
			s.logger.Warn("rsvp updated notification skipped", "rsvp_id", rsvpID, "err", err)
			return updated, nil
		}
		guest := s.lookupGuest(ctx, updated.UserID)
		if err := s.notifier.RSVPUpdated(ctx, event, updated, guest); err != nil {
			s.logger.Warn("rsvp updated notification failed", "rsvp_id", rsvpID, "err", err)
		}
	}
	return updated, nil
}

func (s *rsvpService) ApproveRSVP(ctx context.Context, rsvpID, actorID string) (*domain.RSVP, error) {
	return s.setApproval(ctx, rsvpID, actorID, true)
}

func (s *rsvpService) RejectRSVP(ctx context.Context, rsvpID, actorID string) (*domain.RSVP, error) {
	return s.setApproval(ctx, rsvpID, actorID, false)
}

func (s *rsvpService) setApproval(ctx context.Context, rsvpID, actorID string, approved bool) (*domain.RSVP, error) {
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, rsvp.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != actorID {
		return nil, domain.ErrForbidden
	}

	changed := rsvp.IsApproved != approved

	updated, err := s.rsvpRepo.SetApproved(ctx, rsvpID, approved)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set rsvp approval: %w", err)
	}

	if changed {
		if err := s.notifier.RSVPApproval(ctx, event, updated, approved); err != nil {
			s.logger.Warn("rsvp approval notification failed", "rsvp_id", rsvpID, "err", err)
		}
	}
	return updated, nil
}

func (s *rsvpService) GuestList(ctx context.Context, eventID, callerID string) ([]*domain.RSVP, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// The host sees every RSVP, approved or not.
	if event.HostID == callerID {
		rsvps, err := s.rsvpRepo.ListByEventID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list rsvps: %w", err)
		}
		return rsvps, nil
	}

	// Private events expose the guest list to approved guests only.
	if event.Privacy == domain.PrivacyPrivate {
		own, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, callerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, fmt.Errorf("get rsvp: %w", err)
		}
		if !own.IsApproved {
			return nil, domain.ErrForbidden
		}
	}

	rsvps, err := s.rsvpRepo.ListApprovedByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list approved rsvps: %w", err)
	}
	return rsvps, nil
}

// lookupGuest resolves the guest for notification content. Lookup failures
// degrade to an ID-only user so fan-out still happens.
func (s *rsvpService) lookupGuest(ctx context.Context, userID string) *domain.User {
	guest, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("guest lookup failed", "user_id", userID, "err", err)
		return &domain.User{ID: userID, Name: "A guest"}
	}
	return guest
}
