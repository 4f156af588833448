package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parkdeck/internal/models"
)

// ErrSessionNotFound indicates no matching parking session row.
var ErrSessionNotFound = errors.New("parking session not found")

const sessionColumns = `
	ps.id, ps.car_id, ps.parking_spot_id, sp.spot_identifier, c.license_plate,
	ps.check_in_time, ps.check_out_time, ps.fee, COALESCE(ps.notes, ''),
	ps.created_at, ps.updated_at`

const sessionFrom = `
	FROM parking_sessions ps
	JOIN parking_spots sp ON sp.id = ps.parking_spot_id
	JOIN cars c ON c.id = ps.car_id`

// SessionRepository persists parking sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session opened by a check-in.
func (r *SessionRepository) Create(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	const query = `
		INSERT INTO parking_sessions (car_id, parking_spot_id, check_in_time, notes, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := querier(ctx, r.db).QueryRowContext(ctx, query,
		session.CarID,
		session.SpotID,
		session.CheckInTime,
		session.Notes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Complete finalizes an active session: sets check-out time, fee and the
// full replacement notes text. Only an active row may be completed.
func (r *SessionRepository) Complete(ctx context.Context, sessionID int64, checkOutTime time.Time, fee float64, notes string) error {
	const query = `
		UPDATE parking_sessions
		SET check_out_time = $2,
		    fee = $3,
		    notes = NULLIF($4, ''),
		    updated_at = NOW()
		WHERE id = $1 AND check_out_time IS NULL
	`
	result, err := querier(ctx, r.db).ExecContext(ctx, query, sessionID, checkOutTime, fee, notes)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ActiveBySpot returns the spot's session with no check-out time, if any.
func (r *SessionRepository) ActiveBySpot(ctx context.Context, spotID int64) (*models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		WHERE ps.parking_spot_id = $1 AND ps.check_out_time IS NULL`
	return r.one(ctx, query, spotID)
}

// ActiveByCar returns the car's session with no check-out time, if any.
func (r *SessionRepository) ActiveByCar(ctx context.Context, carID int64) (*models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		WHERE ps.car_id = $1 AND ps.check_out_time IS NULL`
	return r.one(ctx, query, carID)
}

// ByID fetches a single session.
func (r *SessionRepository) ByID(ctx context.Context, id int64) (*models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		WHERE ps.id = $1`
	return r.one(ctx, query, id)
}

// All returns the full session history, newest check-in first.
func (r *SessionRepository) All(ctx context.Context) ([]models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		ORDER BY ps.check_in_time DESC`
	return r.list(ctx, query)
}

// Active returns sessions still open, newest check-in first.
func (r *SessionRepository) Active(ctx context.Context) ([]models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		WHERE ps.check_out_time IS NULL
		ORDER BY ps.check_in_time DESC`
	return r.list(ctx, query)
}

// Completed returns finished sessions, newest check-out first.
func (r *SessionRepository) Completed(ctx context.Context) ([]models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		WHERE ps.check_out_time IS NOT NULL
		ORDER BY ps.check_out_time DESC`
	return r.list(ctx, query)
}

// ByCar returns a car's full session history.
func (r *SessionRepository) ByCar(ctx context.Context, carID int64) ([]models.ParkingSession, error) {
	const query = `SELECT` + sessionColumns + sessionFrom + `
		WHERE ps.car_id = $1
		ORDER BY ps.check_in_time DESC`
	return r.list(ctx, query, carID)
}

func (r *SessionRepository) one(ctx context.Context, query string, args ...any) (*models.ParkingSession, error) {
	var s models.ParkingSession
	err := querier(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.CarID,
		&s.SpotID,
		&s.SpotIdentifier,
		&s.LicensePlate,
		&s.CheckInTime,
		&s.CheckOutTime,
		&s.Fee,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]models.ParkingSession, error) {
	rows, err := querier(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ParkingSession
	for rows.Next() {
		var s models.ParkingSession
		if err := rows.Scan(
			&s.ID,
			&s.CarID,
			&s.SpotID,
			&s.SpotIdentifier,
			&s.LicensePlate,
			&s.CheckInTime,
			&s.CheckOutTime,
			&s.Fee,
			&s.Notes,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
