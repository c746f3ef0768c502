package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AdminUser is a dashboard account. Accounts are deactivated by clearing
// IsActive, never deleted.
type AdminUser struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Email        *string    `json:"email"`
	FullName     *string    `json:"full_name"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// CreateAdmin registers a new admin user with an already-hashed password.
func (s *Store) CreateAdmin(ctx context.Context, username, passwordHash string, email, fullName *string) (AdminUser, error) {
	username = strings.TrimSpace(username)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if passwordHash == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return AdminUser{}, &ValidationError{Missing: missing}
	}

	admin := AdminUser{
		Username: username,
		Email:    email,
		FullName: fullName,
		IsActive: true,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (username, password_hash, email, full_name, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at
	`, username, passwordHash, email, fullName).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return AdminUser{}, ErrAdminExists
		}
		return AdminUser{}, fmt.Errorf("insert admin user: %w", err)
	}

	return admin, nil
}

// ActiveAdminByUsername looks up an active admin account for login.
func (s *Store) ActiveAdminByUsername(ctx context.Context, username string) (AdminUser, error) {
	var admin AdminUser
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, email, full_name, is_active, created_at, updated_at
		FROM admin_users
		WHERE username = $1 AND is_active = TRUE
	`, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.Email,
		&admin.FullName,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AdminUser{}, ErrAdminNotFound
		}
		return AdminUser{}, fmt.Errorf("lookup admin user: %w", err)
	}

	return admin, nil
}

// ListAdmins returns all admin accounts, newest first, without hashes.
func (s *Store) ListAdmins(ctx context.Context) ([]AdminUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, full_name, is_active, created_at
		FROM admin_users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select admin users: %w", err)
	}
	defer rows.Close()

	var admins []AdminUser
	for rows.Next() {
		var admin AdminUser
		if err := rows.Scan(
			&admin.ID,
			&admin.Username,
			&admin.Email,
			&admin.FullName,
			&admin.IsActive,
			&admin.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan admin user: %w", err)
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin users: %w", err)
	}

	return admins, nil
}
