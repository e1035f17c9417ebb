package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	rsvpRepo       domain.RSVPRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, rsvpRepo domain.RSVPRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.HostID == "" {
		return fmt.Errorf("event host is required")
	}
	if event.Title == "" {
		return domain.ErrInvalidInput
	}
	if event.Privacy == "" {
		event.Privacy = domain.PrivacyPublic
	}
	if !domain.ValidPrivacy(event.Privacy) {
		return domain.ErrInvalidInput
	}
	if event.Capacity != nil && *event.Capacity < 0 {
		return domain.ErrInvalidInput
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, eventID, userID string) (*domain.EventWithStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Events outside the caller's visibility read as not found so their
	// existence is not revealed. PRIVATE events stay visible to guests who
	// already hold an RSVP.
	if event.Privacy != domain.PrivacyPublic && event.HostID != userID {
		if userID == "" {
			return nil, domain.ErrNotFound
		}
		if event.Privacy == domain.PrivacyPrivate {
			if _, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, userID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, domain.ErrNotFound
				}
				return nil, fmt.Errorf("check rsvp: %w", err)
			}
		}
	}

	count, err := s.rsvpRepo.CountYesWeighted(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}

	stats := &domain.EventWithStats{
		Event:     event,
		RSVPCount: count,
	}
	if event.Capacity != nil {
		remaining := *event.Capacity - count
		if remaining < 0 {
			remaining = 0
		}
		stats.RemainingCapacity = &remaining
	}
	return stats, nil
}

func (s *eventService) VisibleEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visible events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, hostID string, title, description, location *string, date *time.Time, capacity *int, privacy *string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

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
	if privacy != nil && !domain.ValidPrivacy(*privacy) {
		return nil, domain.ErrInvalidInput
	}
	if capacity != nil && *capacity < 0 {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.eventRepo.Update(ctx, eventID, title, description, location, date, capacity, privacy)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, hostID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
