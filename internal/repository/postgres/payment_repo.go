package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"gatherly/internal/domain"
)

const paymentColumns = "id, event_id, user_id, payment_link, amount, description, status, manually_confirmed, confirmed_by, confirmation_notes, created_at, updated_at"

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{
		DB: db,
	}
}

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	var linkNull, descNull, confirmedByNull, notesNull sql.NullString
	var amountNull sql.NullFloat64
	err := row.Scan(
		&p.ID, &p.EventID, &p.UserID, &linkNull, &amountNull, &descNull,
		&p.Status, &p.ManuallyConfirmed, &confirmedByNull, &notesNull,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if linkNull.Valid {
		p.PaymentLink = &linkNull.String
	}
	if amountNull.Valid {
		p.Amount = &amountNull.Float64
	}
	if descNull.Valid {
		p.Description = &descNull.String
	}
	if confirmedByNull.Valid {
		p.ConfirmedBy = &confirmedByNull.String
	}
	if notesNull.Valid {
		p.ConfirmationNotes = &notesNull.String
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (event_id, user_id, payment_link, amount, description, status, manually_confirmed, confirmed_by, confirmation_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		p.EventID, p.UserID, p.PaymentLink, p.Amount, p.Description,
		p.Status, p.ManuallyConfirmed, p.ConfirmedBy, p.ConfirmationNotes,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) GetByEventAndUserWithStatuses(ctx context.Context, eventID, userID string, statuses []string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE event_id = $1 AND user_id = $2 AND status = ANY($3)
		ORDER BY created_at ASC
		LIMIT 1
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, eventID, userID, pq.Array(statuses)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) GetLinkRecord(ctx context.Context, eventID, hostID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE event_id = $1 AND user_id = $2 AND payment_link IS NOT NULL
		ORDER BY created_at ASC
		LIMIT 1
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, eventID, hostID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) MarkConfirmed(ctx context.Context, paymentID, confirmedBy string, notes *string) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $1, manually_confirmed = TRUE, confirmed_by = $2, confirmation_notes = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + paymentColumns + `
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, domain.PaymentStatusPaid, confirmedBy, notes, paymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentID, status string, notes *string) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $1, confirmation_notes = COALESCE($2, confirmation_notes), updated_at = NOW()
		WHERE id = $3
		RETURNING ` + paymentColumns + `
	`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, status, notes, paymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM payments WHERE event_id = $1 AND status = $2 AND manually_confirmed = TRUE`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID, domain.PaymentStatusPaid).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *paymentRepository) CountByEventAndStatus(ctx context.Context, eventID, status string) (int, error) {
	query := `SELECT COUNT(*) FROM payments WHERE event_id = $1 AND status = $2`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *paymentRepository) HasPaid(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE event_id = $1 AND user_id = $2 AND status = $3)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID, domain.PaymentStatusPaid).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *paymentRepository) HasAnyForEvent(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
