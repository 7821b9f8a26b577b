package iam

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// UserRecord is a stored user account.
type UserRecord struct {
	ID              string
	Email           string
	PasswordHash    string
	Role            rbac.Role
	AssignedClinics []string
	PrimaryClinic   string
	Language        string
	Theme           string
	Active          bool
}

// SessionUser converts the stored record into a request session.
func (u *UserRecord) SessionUser() *rbac.SessionUser {
	return &rbac.SessionUser{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		AssignedClinics: u.AssignedClinics,
		PrimaryClinic:   u.PrimaryClinic,
		Preferences: rbac.UserPreferences{
			Language: u.Language,
			Theme:    u.Theme,
		},
	}
}

// UserRepository looks up user accounts in PostgreSQL.
type UserRepository struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewUserRepository creates a user repository over an existing connection.
func NewUserRepository(db *sql.DB, log *logger.Logger) *UserRepository {
	return &UserRepository{db: db, logger: log}
}

// GetByEmail returns the active user with the given email, or
// sql.ErrNoRows when none exists.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	query := `
		SELECT id, email, password_hash, role, assigned_clinics,
		       COALESCE(primary_clinic, ''), COALESCE(language, 'en'), COALESCE(theme, 'light'), active
		FROM users
		WHERE email = $1 AND active = TRUE`

	user := &UserRecord{}
	var role string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&role,
		pq.Array(&user.AssignedClinics),
		&user.PrimaryClinic,
		&user.Language,
		&user.Theme,
		&user.Active,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	user.Role = rbac.Role(role)

	return user, nil
}
