package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationService(notifRepo *fakeNotificationRepo, eventRepo *fakeEventRepo, rsvpRepo *fakeRSVPRepo, userRepo *fakeUserRepo, email *fakeEmailService) domain.NotificationService {
	return NewNotificationService(notifRepo, eventRepo, rsvpRepo, userRepo, email, testLogger())
}

func TestNotificationService_RSVPCreated(t *testing.T) {
	ctx := context.Background()
	notifRepo := newFakeNotificationRepo()
	eventRepo := newFakeEventRepo()
	event := seedEvent(t, eventRepo, "host-1", domain.PrivacyPublic)

	now := time.Now()
	rsvp := domain.NewRSVP(event.ID, "guest-1", domain.RSVPStatusYes, 1, true, now, now)
	guest := &domain.User{ID: "guest-1", Name: "Dana"}

	svc := newNotificationService(notifRepo, eventRepo, newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})
	require.NoError(t, svc.RSVPCreated(ctx, event, rsvp, guest))

	hostNotifs := notifRepo.forUser("host-1")
	require.Len(t, hostNotifs, 1)
	assert.Equal(t, domain.NotificationRSVPConfirmation, hostNotifs[0].Type)
	assert.Equal(t, "New RSVP for your event", hostNotifs[0].Title)
	assert.Contains(t, hostNotifs[0].Message, "Dana")
	assert.Contains(t, hostNotifs[0].Message, "Yes")
	require.NotNil(t, hostNotifs[0].EventID)
	assert.Equal(t, event.ID, *hostNotifs[0].EventID)

	guestNotifs := notifRepo.forUser("guest-1")
	require.Len(t, guestNotifs, 1)
	assert.Equal(t, "RSVP Confirmation", guestNotifs[0].Title)
	assert.Contains(t, guestNotifs[0].Message, event.Title)
}

func TestNotificationService_RSVPCreated_PartialFailure(t *testing.T) {
	ctx := context.Background()
	notifRepo := newFakeNotificationRepo()
	notifRepo.createErr = errors.New("db error")
	eventRepo := newFakeEventRepo()
	event := seedEvent(t, eventRepo, "host-1", domain.PrivacyPublic)

	now := time.Now()
	rsvp := domain.NewRSVP(event.ID, "guest-1", domain.RSVPStatusYes, 0, true, now, now)

	svc := newNotificationService(notifRepo, eventRepo, newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})
	err := svc.RSVPCreated(ctx, event, rsvp, &domain.User{ID: "guest-1", Name: "Dana"})
	require.Error(t, err)
}

func TestNotificationService_RSVPApproval(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		approved  bool
		wantTitle string
		wantVerb  string
	}{
		{name: "approved", approved: true, wantTitle: "RSVP Approved", wantVerb: "approved"},
		{name: "rejected", approved: false, wantTitle: "RSVP Rejected", wantVerb: "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifRepo := newFakeNotificationRepo()
			eventRepo := newFakeEventRepo()
			event := seedEvent(t, eventRepo, "host-1", domain.PrivacyPrivate)

			now := time.Now()
			rsvp := domain.NewRSVP(event.ID, "guest-1", domain.RSVPStatusYes, 0, tt.approved, now, now)

			svc := newNotificationService(notifRepo, eventRepo, newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})
			require.NoError(t, svc.RSVPApproval(ctx, event, rsvp, tt.approved))

			// Only the guest is notified.
			assert.Empty(t, notifRepo.forUser("host-1"))
			guestNotifs := notifRepo.forUser("guest-1")
			require.Len(t, guestNotifs, 1)
			assert.Equal(t, tt.wantTitle, guestNotifs[0].Title)
			assert.Contains(t, guestNotifs[0].Message, tt.wantVerb)
		})
	}
}

func TestNotificationService_EventReminder(t *testing.T) {
	ctx := context.Background()
	notifRepo := newFakeNotificationRepo()
	eventRepo := newFakeEventRepo()
	event := seedEvent(t, eventRepo, "host-1", domain.PrivacyPublic)

	svc := newNotificationService(notifRepo, eventRepo, newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})
	require.NoError(t, svc.EventReminder(ctx, event, "guest-1"))

	notifs := notifRepo.forUser("guest-1")
	require.Len(t, notifs, 1)
	assert.Equal(t, domain.NotificationEventReminder, notifs[0].Type)
	assert.Equal(t, "Event Reminder", notifs[0].Title)
	assert.Contains(t, notifs[0].Message, event.Title)
}

func TestNotificationService_ReadFlow(t *testing.T) {
	ctx := context.Background()
	notifRepo := newFakeNotificationRepo()
	eventRepo := newFakeEventRepo()
	event := seedEvent(t, eventRepo, "host-1", domain.PrivacyPublic)

	svc := newNotificationService(notifRepo, eventRepo, newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})
	require.NoError(t, svc.EventReminder(ctx, event, "guest-1"))
	require.NoError(t, svc.EventReminder(ctx, event, "guest-1"))
	require.NoError(t, svc.EventReminder(ctx, event, "guest-2"))

	count, err := svc.UnreadCount(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	notifs, total, err := svc.List(ctx, "guest-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, notifs, 2)

	updated, err := svc.MarkRead(ctx, "guest-1", []string{notifs[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	// Marking another user's notification is a no-op.
	other := notifRepo.forUser("guest-2")
	updated, err = svc.MarkRead(ctx, "guest-1", []string{other[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	updated, err = svc.MarkAllRead(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	count, err = svc.UnreadCount(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNotificationService_List_EmptyIsSlice(t *testing.T) {
	svc := newNotificationService(newFakeNotificationRepo(), newFakeEventRepo(), newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})

	notifs, total, err := svc.List(context.Background(), "guest-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	require.NotNil(t, notifs)
	assert.Empty(t, notifs)
}

func TestNotificationService_BroadcastHostMessage(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeNotificationRepo, *fakeEventRepo, *fakeRSVPRepo, *fakeUserRepo, *domain.Event) {
		notifRepo := newFakeNotificationRepo()
		eventRepo := newFakeEventRepo()
		rsvpRepo := newFakeRSVPRepo()
		userRepo := newFakeUserRepo()

		userRepo.add(&domain.User{ID: "host-1", Name: "Hana", Email: "hana@example.com"})
		userRepo.add(&domain.User{ID: "guest-1", Name: "Dana", Email: "dana@example.com"})
		userRepo.add(&domain.User{ID: "guest-2", Name: "Remy", Email: "remy@example.com"})

		event := seedEvent(t, eventRepo, "host-1", domain.PrivacyPublic)
		now := time.Now()
		require.NoError(t, rsvpRepo.Create(ctx, domain.NewRSVP(event.ID, "guest-1", domain.RSVPStatusYes, 0, true, now, now)))
		require.NoError(t, rsvpRepo.Create(ctx, domain.NewRSVP(event.ID, "guest-2", domain.RSVPStatusYes, 1, true, now, now)))
		require.NoError(t, rsvpRepo.Create(ctx, domain.NewRSVP(event.ID, "guest-3", domain.RSVPStatusMaybe, 0, true, now, now)))
		require.NoError(t, rsvpRepo.Create(ctx, domain.NewRSVP(event.ID, "guest-4", domain.RSVPStatusYes, 0, false, now, now)))
		return notifRepo, eventRepo, rsvpRepo, userRepo, event
	}

	t.Run("notifies approved yes guests and emails them", func(t *testing.T) {
		notifRepo, eventRepo, rsvpRepo, userRepo, event := setup()
		email := &fakeEmailService{}
		svc := newNotificationService(notifRepo, eventRepo, rsvpRepo, userRepo, email)

		notified, err := svc.BroadcastHostMessage(ctx, event.ID, "host-1", "Parking update", "Use the side entrance.")
		require.NoError(t, err)
		assert.Equal(t, 2, notified)

		for _, userID := range []string{"guest-1", "guest-2"} {
			notifs := notifRepo.forUser(userID)
			require.Len(t, notifs, 1, "user %s", userID)
			assert.Equal(t, domain.NotificationHostMessage, notifs[0].Type)
			assert.Equal(t, "Parking update", notifs[0].Title)
			assert.Equal(t, "Use the side entrance.", notifs[0].Message)
		}
		assert.Empty(t, notifRepo.forUser("guest-3"))
		assert.Empty(t, notifRepo.forUser("guest-4"))

		require.Len(t, email.sent, 2)
		assert.Equal(t, "Hana", email.sent[0].HostName)
		assert.Equal(t, event.Title, email.sent[0].EventTitle)
	})

	t.Run("non-host forbidden", func(t *testing.T) {
		notifRepo, eventRepo, rsvpRepo, userRepo, event := setup()
		svc := newNotificationService(notifRepo, eventRepo, rsvpRepo, userRepo, &fakeEmailService{})

		_, err := svc.BroadcastHostMessage(ctx, event.ID, "guest-1", "Hi", "There")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("empty title or message", func(t *testing.T) {
		notifRepo, eventRepo, rsvpRepo, userRepo, event := setup()
		svc := newNotificationService(notifRepo, eventRepo, rsvpRepo, userRepo, &fakeEmailService{})

		_, err := svc.BroadcastHostMessage(ctx, event.ID, "host-1", "", "There")
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.BroadcastHostMessage(ctx, event.ID, "host-1", "Hi", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("event not found", func(t *testing.T) {
		svc := newNotificationService(newFakeNotificationRepo(), newFakeEventRepo(), newFakeRSVPRepo(), newFakeUserRepo(), &fakeEmailService{})

		_, err := svc.BroadcastHostMessage(ctx, "ev-999", "host-1", "Hi", "There")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("email failure does not reduce the notified count", func(t *testing.T) {
		notifRepo, eventRepo, rsvpRepo, userRepo, event := setup()
		email := &fakeEmailService{err: errors.New("smtp down")}
		svc := newNotificationService(notifRepo, eventRepo, rsvpRepo, userRepo, email)

		notified, err := svc.BroadcastHostMessage(ctx, event.ID, "host-1", "Parking update", "Use the side entrance.")
		require.NoError(t, err)
		assert.Equal(t, 2, notified)
	})
}
