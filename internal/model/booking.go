package model

import "time"

// Payment status values for a booking.  A booking is created at checkout as
// "unpaid" and moves to "paid" once the payment provider confirms; refunds
// are recorded but the row is never deleted.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Lifecycle status values for a booking.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking records a paid reservation of a rental product for a time window.
// Bookings are created at checkout and mutated only by admin status
// transitions; they are kept forever as a historical record.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owner of the booking.
//  ProductID     – rented product.
//  Location      – pickup city/location label.
//  StartsAt      – window start (UTC).
//  EndsAt        – window end (UTC).
//  PaymentStatus – unpaid, paid or refunded.
//  Status        – pending, confirmed, completed or cancelled.
type Booking struct {
	ID            uint64    // bookings.id
	UserID        uint64    // bookings.user_id
	ProductID     uint64    // bookings.product_id
	Location      string    // bookings.location
	StartsAt      time.Time // bookings.starts_at
	EndsAt        time.Time // bookings.ends_at
	PaymentStatus string    // bookings.payment_status
	Status        string    // bookings.status
	CreatedAt     time.Time // bookings.created_at
	UpdatedAt     time.Time // bookings.updated_at
}

// ActiveAt reports whether the booking window contains t.  Both boundaries
// are inclusive, matching the original check (start <= t <= end).
func (b Booking) ActiveAt(t time.Time) bool {
	return !t.Before(b.StartsAt) && !t.After(b.EndsAt)
}
