// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// LockerOpenedEvent is published after every open attempt, confirmed or
// fallback.  It carries enough detail for downstream consumers (notification
// jobs, analytics) without querying the primary database.  Nullable fields
// use pointers: admin commands have no booking, raw relay commands may have
// no locker row.
type LockerOpenedEvent struct {
	EventID    string  `json:"event_id"`
	Source     string  `json:"source"` // "customer" or "admin"
	UserID     *uint64 `json:"user_id,omitempty"`
	BookingID  *uint64 `json:"booking_id,omitempty"`
	LockerID   *uint64 `json:"locker_id,omitempty"`
	LockerName string  `json:"locker_name,omitempty"`
	HubID      string  `json:"hub_id"`
	RelayID    string  `json:"relay_id"`
	Fallback   bool    `json:"fallback"`
	OpenedAt   string  `json:"opened_at"`
}
