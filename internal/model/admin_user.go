package model

import "time"

// Admin roles.  The owner can do everything; managers handle day-to-day
// booking operations.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
)

// AdminUser is a back-office account.  Guests never have accounts; they
// identify themselves with a booking reference and email instead.
type AdminUser struct {
	ID           uint64    // admin_users.id
	Email        string    // admin_users.email (unique, lowercased)
	PasswordHash string    // admin_users.password_hash (bcrypt)
	Name         string    // admin_users.name
	Role         string    // admin_users.role
	CreatedAt    time.Time // admin_users.created_at
	UpdatedAt    time.Time // admin_users.updated_at
}
