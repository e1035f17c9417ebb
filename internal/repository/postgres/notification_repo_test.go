package postgres

import (
	"context"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var notificationRows = []string{"id", "user_id", "event_id", "type", "title", "message", "action_link", "action_text", "is_read", "created_at"}

func TestNotificationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	eventID := "ev-1"
	link := "/events/ev-1"
	text := "View Event"

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO notifications \(user_id, event_id, type, title, message, action_link, action_text, is_read, created_at\)`).
		WithArgs("user-1", &eventID, domain.NotificationRSVPConfirmation, "RSVP Confirmation", "You have RSVP'd YES to 'BBQ'.", &link, &text, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("n-1", now))

	repo := NewNotificationRepository(db)
	n := &domain.Notification{
		UserID:     "user-1",
		EventID:    &eventID,
		Type:       domain.NotificationRSVPConfirmation,
		Title:      "RSVP Confirmation",
		Message:    "You have RSVP'd YES to 'BBQ'.",
		ActionLink: &link,
		ActionText: &text,
	}
	require.NoError(t, repo.Create(ctx, n))
	require.Equal(t, "n-1", n.ID)
	require.Equal(t, now, n.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("user-1", 20, 20).
		WillReturnRows(sqlmock.NewRows(notificationRows).
			AddRow("n-1", "user-1", nil, domain.NotificationSystem, "Welcome", "Hello!", nil, nil, false, now))

	repo := NewNotificationRepository(db)
	items, total, err := repo.ListByUserID(ctx, "user-1", domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.Len(t, items, 1)
	require.Nil(t, items[0].EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("owner scoped update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ids := []string{"n-1", "n-2"}
		mock.ExpectExec(`UPDATE notifications SET is_read = TRUE\s+WHERE user_id = \$1 AND id = ANY\(\$2\)`).
			WithArgs("user-1", pq.Array(ids)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		repo := NewNotificationRepository(db)
		count, err := repo.MarkRead(ctx, "user-1", ids)
		require.NoError(t, err)
		require.Equal(t, 2, count)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ids is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewNotificationRepository(db)
		count, err := repo.MarkRead(ctx, "user-1", nil)
		require.NoError(t, err)
		require.Zero(t, count)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET is_read = TRUE\s+WHERE user_id = \$1 AND is_read = FALSE`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 7))

	repo := NewNotificationRepository(db)
	count, err := repo.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND is_read = FALSE`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := NewNotificationRepository(db)
	count, err := repo.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
