package repository

import (
	"context"
	"database/sql"
	"errors"

	"parkdeck/internal/models"
)

// ErrAttendantNotFound indicates no attendant with that email.
var ErrAttendantNotFound = errors.New("attendant not found")

// AttendantRepository persists garage operator accounts.
type AttendantRepository struct {
	db *sql.DB
}

// NewAttendantRepository returns repository.
func NewAttendantRepository(db *sql.DB) *AttendantRepository {
	return &AttendantRepository{db: db}
}

// Create inserts a new attendant.
func (r *AttendantRepository) Create(ctx context.Context, attendant *models.Attendant) error {
	const query = `
		INSERT INTO attendants (email, password_hash, role, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	return querier(ctx, r.db).QueryRowContext(ctx, query,
		attendant.Email,
		attendant.PasswordHash,
		attendant.Role,
	).Scan(&attendant.ID, &attendant.CreatedAt)
}

// GetByEmail looks up an attendant for login.
func (r *AttendantRepository) GetByEmail(ctx context.Context, email string) (*models.Attendant, error) {
	const query = `SELECT id, email, password_hash, role, created_at FROM attendants WHERE email = $1`
	var a models.Attendant
	err := querier(ctx, r.db).QueryRowContext(ctx, query, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttendantNotFound
		}
		return nil, err
	}
	return &a, nil
}
