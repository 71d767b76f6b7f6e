package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// AdminUserRepo stores back-office accounts.
type AdminUserRepo struct {
	db *sql.DB
}

// NewAdminUserRepo returns an AdminUserRepo bound to the given database.
func NewAdminUserRepo(db *sql.DB) *AdminUserRepo { return &AdminUserRepo{db: db} }

// GetByEmail loads an admin by email (case insensitive).
func (r *AdminUserRepo) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	const q = `SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM admin_users WHERE email = ?`
	var a model.AdminUser
	err := r.db.QueryRowContext(ctx, q, strings.ToLower(email)).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByID loads an admin by id.
func (r *AdminUserRepo) GetByID(ctx context.Context, id uint64) (*model.AdminUser, error) {
	const q = `SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM admin_users WHERE id = ?`
	var a model.AdminUser
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an admin account and populates the generated id.
func (r *AdminUserRepo) Create(ctx context.Context, a *model.AdminUser) error {
	const q = `INSERT INTO admin_users (email, password_hash, name, role) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, strings.ToLower(a.Email), a.PasswordHash, a.Name, a.Role)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}
