package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/rentle/smart-locker/internal/model"
	"github.com/rentle/smart-locker/internal/queue"
	"github.com/rentle/smart-locker/internal/repository"
)

// HubService backs the admin hub-integration endpoint.  The admin-role check
// happens in middleware before any of these methods run; everything here
// assumes an already-authorized caller.
type HubService struct {
	Lockers  LockerStore
	Audit    AuditStore
	Settings SettingsSource
	Hub      HubAPI

	Publish func(ctx context.Context, ev queue.LockerOpenedEvent) error
}

// RelayResult is the outcome of an admin open_relay action.  Success is true
// on both the confirmed and the fallback path; Warning distinguishes them.
type RelayResult struct {
	Message     string
	Warning     string
	LockerID    *uint64
	HubResponse json.RawMessage
}

// Messages for the two open_relay outcome branches.  The fallback wording is
// load-bearing: it is the only signal an admin gets that the hub never
// confirmed the command.
const (
	relayOpenedMessage   = "Relay opened successfully"
	relayFallbackMessage = "Relay open command sent (HUB may be offline)"
)

// OpenRelay sends an open command for the given hub/relay pair on behalf of
// an admin.  Whatever the hub answers, the matching locker row (when one is
// wired to that pair) is marked open and an audit entry is appended: the
// stored status optimistically mirrors the command, not the confirmation.
func (s *HubService) OpenRelay(ctx context.Context, adminID uint64, hubID, relayID string) (*RelayResult, error) {
	settings, err := s.Settings.HubSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.IP == "" {
		return nil, ErrHubNotConfigured
	}

	var lockerID *uint64
	locker, err := s.Lockers.GetByHubRelay(ctx, hubID, relayID)
	switch {
	case err == nil:
		lockerID = &locker.ID
	case errors.Is(err, repository.ErrLockerNotFound):
		// commands may address relays with no locker row; log with NULL id
	default:
		return nil, err
	}

	res := &RelayResult{LockerID: lockerID}
	action := model.ActionAjaxLocalOpen
	meta := map[string]any{"hub_id": hubID, "relay_id": relayID}

	resp, hubErr := s.Hub.OpenRelay(ctx, settings, relayID)
	if hubErr != nil {
		action = model.ActionAjaxLocalOpenFallback
		meta["error"] = hubErr.Error()
		res.Message = relayFallbackMessage
		res.Warning = hubErr.Error()
		log.Printf("hub relay fallback: hub=%s relay=%s: %v", hubID, relayID, hubErr)
	} else {
		meta["hub_status"] = resp.StatusCode
		res.Message = relayOpenedMessage
		res.HubResponse = resp.Body
	}

	if lockerID != nil {
		if err := s.Lockers.MarkOpen(ctx, *lockerID); err != nil {
			log.Printf("hub relay: mark open failed for locker=%d: %v", *lockerID, err)
		}
	}

	s.appendAudit(ctx, model.OpenLogEntry{
		UserID:   &adminID,
		LockerID: lockerID,
		Action:   action,
		Metadata: mustJSON(meta),
	})
	name := ""
	if locker != nil {
		name = locker.Name
	}
	s.publish(ctx, queue.LockerOpenedEvent{
		Source:     "admin",
		UserID:     &adminID,
		LockerID:   lockerID,
		LockerName: name,
		HubID:      hubID,
		RelayID:    relayID,
		Fallback:   hubErr != nil,
		OpenedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return res, nil
}

// Status fetches hub health.  An unreachable hub is not an error: the caller
// gets a synthesized offline document with the failure embedded, so the
// admin UI can always render something.
func (s *HubService) Status(ctx context.Context) (json.RawMessage, error) {
	settings, err := s.Settings.HubSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.IP == "" {
		return nil, ErrHubNotConfigured
	}
	doc, hubErr := s.Hub.Status(ctx, settings)
	if hubErr != nil {
		return mustJSON(map[string]any{"status": "offline", "error": hubErr.Error()}), nil
	}
	return doc, nil
}

// Devices fetches the hub's device list with the same survive-on-error shape
// as Status.
func (s *HubService) Devices(ctx context.Context) (json.RawMessage, error) {
	settings, err := s.Settings.HubSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.IP == "" {
		return nil, ErrHubNotConfigured
	}
	doc, hubErr := s.Hub.Devices(ctx, settings)
	if hubErr != nil {
		return mustJSON(map[string]any{"devices": []any{}, "status": "offline", "error": hubErr.Error()}), nil
	}
	return doc, nil
}

func (s *HubService) appendAudit(ctx context.Context, e model.OpenLogEntry) {
	if err := s.Audit.Append(ctx, e); err != nil {
		log.Printf("audit append failed: action=%s: %v", e.Action, err)
	}
}

func (s *HubService) publish(ctx context.Context, ev queue.LockerOpenedEvent) {
	if s.Publish == nil {
		return
	}
	if err := s.Publish(ctx, ev); err != nil {
		log.Printf("locker.opened publish failed: %v", err)
	}
}
