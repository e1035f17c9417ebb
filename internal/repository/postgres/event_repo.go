package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gatherly/internal/domain"
)

const eventColumns = "id, title, description, date, location, privacy, capacity, host_id, created_at, updated_at"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var capNull sql.NullInt64
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Privacy,
		&capNull, &e.HostID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if capNull.Valid {
		c := int(capNull.Int64)
		e.Capacity = &c
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, privacy, capacity, host_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var capArg sql.NullInt64
	if e.Capacity != nil {
		capArg = sql.NullInt64{Int64: int64(*e.Capacity), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Location, e.Privacy, capArg, e.HostID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListVisible(ctx context.Context, userID string) ([]*domain.Event, error) {
	var rows *sql.Rows
	var err error
	if userID == "" {
		query := `SELECT ` + eventColumns + ` FROM events WHERE privacy = $1 ORDER BY date DESC`
		rows, err = r.DB.QueryContext(ctx, query, domain.PrivacyPublic)
	} else {
		query := `
			SELECT ` + eventColumns + `
			FROM events
			WHERE privacy = $1 OR privacy = $2 OR host_id = $3
			ORDER BY date DESC
		`
		rows, err = r.DB.QueryContext(ctx, query, domain.PrivacyPublic, domain.PrivacySemiPrivate, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, title, description, location *string, date *time.Time, capacity *int, privacy *string) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *title)
		n++
	}
	if description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *description)
		n++
	}
	if location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *location)
		n++
	}
	if date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, *date)
		n++
	}
	if capacity != nil {
		setClauses = append(setClauses, fmt.Sprintf("capacity = $%d", n))
		args = append(args, *capacity)
		n++
	}
	if privacy != nil {
		setClauses = append(setClauses, fmt.Sprintf("privacy = $%d", n))
		args = append(args, *privacy)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByDateBetween(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date > $1 AND date <= $2
		ORDER BY date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
