package model

import "time"

// Role values stored in the user_roles table.  Every registered user is a
// customer; admin is an extra row granted out of band.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User mirrors the users table.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
