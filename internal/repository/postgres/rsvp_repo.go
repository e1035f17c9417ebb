package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"gatherly/internal/domain"
)

const rsvpColumns = "id, event_id, user_id, status, plus_ones, is_approved, created_at, updated_at"

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

func scanRSVP(row interface{ Scan(...any) error }) (*domain.RSVP, error) {
	rsvp := &domain.RSVP{}
	err := row.Scan(
		&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Status,
		&rsvp.PlusOnes, &rsvp.IsApproved, &rsvp.CreatedAt, &rsvp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (event_id, user_id, status, plus_ones, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.UserID, rsvp.Status, rsvp.PlusOnes, rsvp.IsApproved, rsvp.CreatedAt, rsvp.UpdatedAt,
	).Scan(&rsvp.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE id = $1`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 AND user_id = $2`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	query := `SELECT ` + rsvpColumns + ` FROM rsvps WHERE event_id = $1 ORDER BY created_at DESC`
	return r.queryRSVPs(ctx, query, eventID)
}

func (r *rsvpRepository) ListApprovedByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1 AND is_approved = TRUE
		ORDER BY created_at DESC
	`
	return r.queryRSVPs(ctx, query, eventID)
}

func (r *rsvpRepository) ListApprovedYesByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	query := `
		SELECT ` + rsvpColumns + `
		FROM rsvps
		WHERE event_id = $1 AND status = $2 AND is_approved = TRUE
		ORDER BY created_at DESC
	`
	return r.queryRSVPs(ctx, query, eventID, domain.RSVPStatusYes)
}

func (r *rsvpRepository) queryRSVPs(ctx context.Context, query string, args ...any) ([]*domain.RSVP, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}

func (r *rsvpRepository) CountYesWeighted(ctx context.Context, eventID string) (int, error) {
	// Each YES RSVP counts as the guest plus their plus-ones.
	query := `
		SELECT COALESCE(SUM(plus_ones + 1), 0)
		FROM rsvps
		WHERE event_id = $1 AND status = $2
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, eventID, domain.RSVPStatusYes).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rsvpRepository) Update(ctx context.Context, rsvpID string, status *string, plusOnes *int) (*domain.RSVP, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *status)
		n++
	}
	if plusOnes != nil {
		setClauses = append(setClauses, fmt.Sprintf("plus_ones = $%d", n))
		args = append(args, *plusOnes)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, rsvpID)
	}
	args = append(args, rsvpID)
	query := fmt.Sprintf(`
		UPDATE rsvps SET %s
		WHERE id = $%d
		RETURNING `+rsvpColumns+`
	`, strings.Join(setClauses, ", "), n)
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) SetApproved(ctx context.Context, rsvpID string, approved bool) (*domain.RSVP, error) {
	query := `
		UPDATE rsvps SET is_approved = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + rsvpColumns + `
	`
	rsvp, err := scanRSVP(r.DB.QueryRowContext(ctx, query, approved, rsvpID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}
