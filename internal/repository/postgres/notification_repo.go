package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"gatherly/internal/domain"
)

const notificationColumns = "id, user_id, event_id, type, title, message, action_link, action_text, is_read, created_at"

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{
		DB: db,
	}
}

func scanNotification(row interface{ Scan(...any) error }) (*domain.Notification, error) {
	n := &domain.Notification{}
	var eventNull, linkNull, textNull sql.NullString
	err := row.Scan(
		&n.ID, &n.UserID, &eventNull, &n.Type, &n.Title, &n.Message,
		&linkNull, &textNull, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if eventNull.Valid {
		n.EventID = &eventNull.String
	}
	if linkNull.Valid {
		n.ActionLink = &linkNull.String
	}
	if textNull.Valid {
		n.ActionText = &textNull.String
	}
	return n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, event_id, type, title, message, action_link, action_text, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query,
		n.UserID, n.EventID, n.Type, n.Title, n.Message, n.ActionLink, n.ActionText, n.IsRead,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// Scoped to the owner so a user cannot mark someone else's rows.
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND id = ANY($2)
	`
	result, err := r.DB.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`
	result, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
