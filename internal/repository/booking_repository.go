package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rentle/smart-locker/internal/model"
)

// BookingRepo provides read access to the bookings table.  The unlock flow
// only ever reads bookings; creation happens at checkout and status
// transitions are an admin concern.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// GetByID fetches a single booking.  Returns ErrBookingNotFound when no row
// matches; callers must not leak that distinction to unauthenticated users.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, product_id, location, starts_at, ends_at,
	                  payment_status, status, created_at, updated_at
	           FROM bookings WHERE id = ? LIMIT 1`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.ProductID, &b.Location, &b.StartsAt, &b.EndsAt,
		&b.PaymentStatus, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
