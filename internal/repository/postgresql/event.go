package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type eventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, title, latitude, longitude, radius_meters, check_in_code,
	hourly_rate, starts_at, ends_at, created_at, updated_at`

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Latitude, &e.Longitude, &e.RadiusMeters, &e.CheckInCode,
		&e.HourlyRate, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements event.EventRepository.
func (r *eventRepository) GetByID(ctx context.Context, id string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEvent(q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, fmt.Errorf("failed to get event by id: %w", err)
	}

	return e, nil
}

// GetByCheckInCode implements event.EventRepository.
func (r *eventRepository) GetByCheckInCode(ctx context.Context, code string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEvent(q.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE check_in_code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, fmt.Errorf("failed to get event by code: %w", err)
	}

	return e, nil
}
