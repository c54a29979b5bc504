package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLProfileRepository is the sqlx-backed store for user profiles.
type SQLProfileRepository struct {
	db *sqlx.DB
}

// NewSQLProfileRepository creates a new SQLProfileRepository.
func NewSQLProfileRepository(db *sqlx.DB) *SQLProfileRepository {
	return &SQLProfileRepository{db: db}
}

const profileColumns = `id, display_name, avatar_url, bio, role, created_at, updated_at`

// GetProfile retrieves a profile by its identity-provider subject.
func (r *SQLProfileRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// CreateProfile inserts a new profile.
func (r *SQLProfileRepository) CreateProfile(ctx context.Context, profile *Profile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO profiles
		(id, display_name, avatar_url, bio, role, created_at, updated_at)
		VALUES (:id, :display_name, :avatar_url, :bio, :role, :created_at, :updated_at)`, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// UpdateProfile updates the self-service fields of a profile.
func (r *SQLProfileRepository) UpdateProfile(ctx context.Context, profile *Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, `UPDATE profiles
		SET display_name = :display_name, avatar_url = :avatar_url, bio = :bio, updated_at = :updated_at
		WHERE id = :id`, profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %q: %w", profile.ID, ErrNotFound)
	}
	return nil
}

// UpdateRole changes a profile's role.
func (r *SQLProfileRepository) UpdateRole(ctx context.Context, id string, role Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %q: %w", id, ErrNotFound)
	}
	return nil
}

// ListByRole retrieves all profiles holding the given role.
func (r *SQLProfileRepository) ListByRole(ctx context.Context, role Role) ([]*Profile, error) {
	var profiles []*Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = ? ORDER BY display_name`
	if err := r.db.SelectContext(ctx, &profiles, query, role); err != nil {
		return nil, fmt.Errorf("failed to list profiles by role: %w", err)
	}
	return profiles, nil
}
