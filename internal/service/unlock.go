package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rentle/smart-locker/internal/hub"
	"github.com/rentle/smart-locker/internal/model"
	"github.com/rentle/smart-locker/internal/queue"
)

// BookingStore is the slice of the booking repository the unlock flow needs.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
}

// LockerStore covers locker reads and the writes both flows perform.
type LockerStore interface {
	ClaimNextClosed(ctx context.Context) (*model.Locker, error)
	GetByHubRelay(ctx context.Context, hubID, relayID string) (*model.Locker, error)
	MarkOpen(ctx context.Context, id uint64) error
}

// AuditStore appends open-log entries.
type AuditStore interface {
	Append(ctx context.Context, e model.OpenLogEntry) error
}

// SettingsSource returns the hub connection settings.  Implementations must
// read fresh state on every call; admin edits apply on the next unlock.
type SettingsSource interface {
	HubSettings(ctx context.Context) (model.HubSettings, error)
}

// HubAPI is the outbound hub client surface.
type HubAPI interface {
	OpenRelay(ctx context.Context, s model.HubSettings, relayID string) (*hub.RelayResponse, error)
	Status(ctx context.Context, s model.HubSettings) (json.RawMessage, error)
	Devices(ctx context.Context, s model.HubSettings) (json.RawMessage, error)
}

// UnlockService runs the customer unlock pipeline: authorize the booking,
// claim a closed locker, command the hub, append the audit entry.  Each step
// is sequential; there is no retry on the hub call.
type UnlockService struct {
	Bookings BookingStore
	Lockers  LockerStore
	Audit    AuditStore
	Settings SettingsSource
	Hub      HubAPI

	// Publish fans out a locker.opened event after every open attempt.
	// Optional; failures are swallowed like audit failures.
	Publish func(ctx context.Context, ev queue.LockerOpenedEvent) error

	// Now is the clock used for the booking-window check; tests override it.
	Now func() time.Time
}

// UnlockResult is the successful outcome of an unlock.  Warning is non-empty
// on the fallback path, where the hub did not confirm the command but the
// locker was released to the customer anyway.
type UnlockResult struct {
	Booking     *model.Booking
	Locker      *model.Locker
	Warning     string
	HubResponse json.RawMessage
}

// UnlockWarning is the exact warning attached when the physical command
// could not be confirmed.  Customers still get a success response: the door
// is released on trust rather than held hostage to hub connectivity.
const UnlockWarning = "Unlock command sent (HUB may be offline)"

// Unlock authorizes the booking and opens one locker for its owner.
//
// Booking-side failures all collapse into ErrNotAuthorized; the specific
// failed condition is logged for diagnostics only.  Allocation failures
// propagate repository.ErrNoLockersAvailable.  Hub failures never propagate:
// the claimed locker stays open and the result carries a warning.
func (s *UnlockService) Unlock(ctx context.Context, userID, bookingID uint64) (*UnlockResult, error) {
	now := s.now()

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		log.Printf("unlock denied: booking=%d user=%d reason=lookup: %v", bookingID, userID, err)
		return nil, ErrNotAuthorized
	}
	switch {
	case b.UserID != userID:
		log.Printf("unlock denied: booking=%d user=%d reason=not_owner", bookingID, userID)
		return nil, ErrNotAuthorized
	case b.PaymentStatus != model.PaymentPaid:
		log.Printf("unlock denied: booking=%d user=%d reason=payment_status=%s", bookingID, userID, b.PaymentStatus)
		return nil, ErrNotAuthorized
	case b.Status != model.BookingConfirmed:
		log.Printf("unlock denied: booking=%d user=%d reason=status=%s", bookingID, userID, b.Status)
		return nil, ErrNotAuthorized
	case !b.ActiveAt(now):
		log.Printf("unlock denied: booking=%d user=%d reason=outside_window", bookingID, userID)
		return nil, ErrNotAuthorized
	}

	// Settings are checked before the claim: an unconfigured hub must fail
	// the request with the pool untouched, not leak a claimed locker.
	settings, err := s.Settings.HubSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.IP == "" {
		return nil, ErrHubNotConfigured
	}

	// The claim flips the locker to open atomically, so a concurrent unlock
	// can never grab the same compartment.
	l, err := s.Lockers.ClaimNextClosed(ctx)
	if err != nil {
		return nil, err
	}

	res := &UnlockResult{Booking: b, Locker: l}
	action := model.ActionSmartLockerOpen
	meta := map[string]any{
		"booking_id":  b.ID,
		"locker_id":   l.ID,
		"locker_name": l.Name,
		"hub_id":      l.HubID,
		"relay_id":    l.RelayID,
	}

	resp, hubErr := s.Hub.OpenRelay(ctx, settings, l.RelayID)
	if hubErr != nil {
		// Fail open: the locker was already marked open at claim time and
		// stays that way.  Record the failure, tell the caller it worked.
		action = model.ActionSmartLockerFallback
		meta["error"] = hubErr.Error()
		res.Warning = UnlockWarning
		log.Printf("unlock fallback: booking=%d locker=%d hub error: %v", b.ID, l.ID, hubErr)
	} else {
		meta["hub_status"] = resp.StatusCode
		res.HubResponse = resp.Body
	}

	// The customer path logs with a NULL locker id and identifies the
	// compartment in metadata instead, mirroring the admin path's inverse
	// convention.
	s.appendAudit(ctx, model.OpenLogEntry{
		UserID:   &userID,
		Action:   action,
		Metadata: mustJSON(meta),
	})
	s.publish(ctx, queue.LockerOpenedEvent{
		Source:     "customer",
		UserID:     &userID,
		BookingID:  &b.ID,
		LockerID:   &l.ID,
		LockerName: l.Name,
		HubID:      l.HubID,
		RelayID:    l.RelayID,
		Fallback:   hubErr != nil,
		OpenedAt:   now.UTC().Format(time.RFC3339),
	})

	return res, nil
}

func (s *UnlockService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// appendAudit writes one open-log entry and swallows any failure: audit
// problems are an operator concern, never the customer's.
func (s *UnlockService) appendAudit(ctx context.Context, e model.OpenLogEntry) {
	if err := s.Audit.Append(ctx, e); err != nil {
		log.Printf("audit append failed: action=%s: %v", e.Action, err)
	}
}

func (s *UnlockService) publish(ctx context.Context, ev queue.LockerOpenedEvent) {
	if s.Publish == nil {
		return
	}
	if err := s.Publish(ctx, ev); err != nil {
		log.Printf("locker.opened publish failed: %v", err)
	}
}

// mustJSON marshals metadata maps.  The inputs are plain maps of scalars, so
// a marshal failure is a programming error; fall back to an empty object
// rather than dropping the audit entry.
func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}
