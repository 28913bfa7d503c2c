package model

import "time"

// Locker status values.  A locker returns to "closed" only through an
// explicit admin close action; there is no automatic timeout.
const (
	LockerClosed = "closed"
	LockerOpen   = "open"
)

// Locker represents one physical compartment, addressed by the hub it is
// wired to and the relay switch on that hub.  Status is a best-effort mirror
// of the physical door: a hub that is unreachable during an open attempt
// leaves it stale, and that is accepted rather than corrected.
type Locker struct {
	ID           uint64     // lockers.id
	Name         string     // lockers.name
	HubID        string     // lockers.hub_id
	RelayID      string     // lockers.relay_id
	Status       string     // lockers.status
	LastOpenedAt *time.Time // lockers.last_opened_at (nullable, never opened)
	CreatedAt    time.Time  // lockers.created_at
}
