package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const attendanceColumns = `
	a.id, a.worker_id, a.event_id, a.application_id,
	a.check_in, a.check_out, a.worked_minutes, a.pay_amount,
	a.check_in_method, a.check_in_latitude, a.check_in_longitude,
	a.check_out_method, a.check_out_latitude, a.check_out_longitude,
	a.tx_hash, a.created_at, a.updated_at, e.title`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.WorkerID, &att.EventID, &att.ApplicationID,
		&att.CheckIn, &att.CheckOut, &att.WorkedMinutes, &att.PayAmount,
		&att.CheckInMethod, &att.CheckInLatitude, &att.CheckInLongitude,
		&att.CheckOutMethod, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.TxHash, &att.CreatedAt, &att.UpdatedAt, &att.EventTitle,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			worker_id, event_id, application_id, check_in,
			check_in_method, check_in_latitude, check_in_longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.WorkerID,
		newAttendance.EventID,
		newAttendance.ApplicationID,
		newAttendance.CheckIn,
		newAttendance.CheckInMethod,
		newAttendance.CheckInLatitude,
		newAttendance.CheckInLongitude,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "attendances_worker_id_event_id_key" {
				return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
			}
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN events e ON e.id = a.event_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// GetByWorkerAndEvent implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByWorkerAndEvent(ctx context.Context, workerID, eventID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN events e ON e.id = a.event_id
		WHERE a.worker_id = $1 AND a.event_id = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, workerID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by worker and event: %w", err)
	}

	return &att, nil
}

// GetOpenByWorker implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenByWorker(ctx context.Context, workerID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN events e ON e.id = a.event_id
		WHERE a.worker_id = $1
		  AND a.check_out IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}

	return &att, nil
}

// Close implements attendance.AttendanceRepository.
func (a *attendanceRepository) Close(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_out = $2,
			worked_minutes = $3,
			pay_amount = $4,
			check_out_method = $5,
			check_out_latitude = $6,
			check_out_longitude = $7,
			updated_at = NOW()
		WHERE id = $1 AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.CheckOut,
		att.WorkedMinutes,
		att.PayAmount,
		att.CheckOutMethod,
		att.CheckOutLatitude,
		att.CheckOutLongitude,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrNotCheckedIn
	}

	return nil
}

// ListByEvent implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN events e ON e.id = a.event_id
		WHERE a.event_id = $1
		ORDER BY a.check_in
	`

	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}

	return attendances, nil
}

// CountOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountOpen(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, a.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE check_out IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open attendances: %w", err)
	}

	return count, nil
}
