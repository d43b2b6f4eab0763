package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type applicationRepository struct {
	db *database.DB
}

func NewApplicationRepository(db *database.DB) event.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `
	ap.id, ap.event_id, ap.worker_id, ap.status, ap.created_at, ap.updated_at,
	w.full_name, w.phone`

func scanApplication(row pgx.Row) (event.Application, error) {
	var app event.Application
	err := row.Scan(
		&app.ID, &app.EventID, &app.WorkerID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
		&app.WorkerName, &app.WorkerPhone,
	)
	return app, err
}

// GetByID implements event.ApplicationRepository.
func (r *applicationRepository) GetByID(ctx context.Context, id string) (event.Application, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + applicationColumns + `
		FROM applications ap
		JOIN workers w ON w.id = ap.worker_id
		WHERE ap.id = $1
	`

	app, err := scanApplication(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Application{}, event.ErrApplicationNotFound
		}
		return event.Application{}, fmt.Errorf("failed to get application by id: %w", err)
	}

	return app, nil
}

// GetByWorkerAndEvent implements event.ApplicationRepository.
func (r *applicationRepository) GetByWorkerAndEvent(ctx context.Context, workerID, eventID string) (*event.Application, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + applicationColumns + `
		FROM applications ap
		JOIN workers w ON w.id = ap.worker_id
		WHERE ap.worker_id = $1 AND ap.event_id = $2
	`

	app, err := scanApplication(q.QueryRow(ctx, query, workerID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by worker and event: %w", err)
	}

	return &app, nil
}

// ListConfirmedByEvent implements event.ApplicationRepository.
func (r *applicationRepository) ListConfirmedByEvent(ctx context.Context, eventID string) ([]event.Application, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + applicationColumns + `
		FROM applications ap
		JOIN workers w ON w.id = ap.worker_id
		WHERE ap.event_id = $1 AND ap.status = $2
		ORDER BY w.full_name, ap.created_at
	`

	rows, err := q.Query(ctx, query, eventID, event.ApplicationConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed applications: %w", err)
	}
	defer rows.Close()

	var apps []event.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return apps, nil
}
