package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/resell_api/internal/models"
)

const profileColumns = `id, email, full_name, role, password_hash, created_at, updated_at`

// ProfileRepository handles data access for profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByDisplayName returns profiles whose full_name equals name ignoring case.
// At most two rows are fetched: enough to tell unique from ambiguous.
func (r *ProfileRepository) FindByDisplayName(ctx context.Context, name string) ([]models.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE LOWER(full_name) = LOWER($1) LIMIT 2`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, q, name); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByEmail returns a profile by email, or nil when none exists.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE LOWER(email) = LOWER($1)`
	var p models.Profile
	if err := r.db.GetContext(ctx, &p, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByID returns a profile by id, or nil when none exists.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var p models.Profile
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByRole returns profiles with the given role ordered by name.
func (r *ProfileRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY full_name`
	profiles := []models.Profile{}
	if err := r.db.SelectContext(ctx, &profiles, q, role); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Create inserts a profile and fills its generated fields.
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	const q = `
		INSERT INTO profiles (email, full_name, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, p.Email, p.FullName, p.Role, p.PasswordHash).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}
