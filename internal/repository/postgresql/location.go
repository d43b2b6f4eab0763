package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.SampleRepository {
	return &locationRepository{db: db}
}

// Upsert implements location.SampleRepository.
func (r *locationRepository) Upsert(ctx context.Context, sample location.Sample) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO worker_locations (worker_id, event_id, latitude, longitude, captured_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (worker_id, event_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			captured_at = EXCLUDED.captured_at
	`

	_, err := q.Exec(ctx, query,
		sample.WorkerID,
		sample.EventID,
		sample.Coordinate.Latitude,
		sample.Coordinate.Longitude,
		sample.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert worker location: %w", err)
	}

	return nil
}

// GetLatest implements location.SampleRepository.
func (r *locationRepository) GetLatest(ctx context.Context, workerID, eventID string) (*location.Sample, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, event_id, latitude, longitude, captured_at
		FROM worker_locations
		WHERE worker_id = $1 AND event_id = $2
	`

	var s location.Sample
	err := q.QueryRow(ctx, query, workerID, eventID).Scan(
		&s.WorkerID, &s.EventID, &s.Coordinate.Latitude, &s.Coordinate.Longitude, &s.CapturedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker location: %w", err)
	}

	return &s, nil
}

// ListByEvent implements location.SampleRepository.
func (r *locationRepository) ListByEvent(ctx context.Context, eventID string) ([]location.Sample, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, event_id, latitude, longitude, captured_at
		FROM worker_locations
		WHERE event_id = $1
	`

	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker locations: %w", err)
	}
	defer rows.Close()

	var samples []location.Sample
	for rows.Next() {
		var s location.Sample
		if err := rows.Scan(&s.WorkerID, &s.EventID, &s.Coordinate.Latitude, &s.Coordinate.Longitude, &s.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker location: %w", err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating worker locations: %w", err)
	}

	return samples, nil
}

// Count implements location.SampleRepository.
func (r *locationRepository) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM worker_locations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count worker locations: %w", err)
	}

	return count, nil
}
