package model

import "time"

// Product is a rentable cleaning device listed in the public catalog.
type Product struct {
	ID          uint64    // products.id
	Name        string    // products.name
	Description string    // products.description
	City        string    // products.city
	PriceCents  uint32    // products.price_cents (per day)
	IsActive    bool      // products.is_active
	CreatedAt   time.Time // products.created_at
}
