package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rentle/smart-locker/internal/hub"
	"github.com/rentle/smart-locker/internal/model"
	"github.com/rentle/smart-locker/internal/repository"
)

func newHubService(l *mockLockers, a *mockAudit, h *mockHub) *HubService {
	return &HubService{
		Lockers:  l,
		Audit:    a,
		Settings: &mockSettings{settings: model.HubSettings{IP: "192.168.1.50"}},
		Hub:      h,
	}
}

func wiredLockers() *mockLockers {
	return &mockLockers{
		byHubRelayFunc: func(ctx context.Context, hubID, relayID string) (*model.Locker, error) {
			return &model.Locker{ID: 3, Name: "L1", HubID: hubID, RelayID: relayID, Status: model.LockerClosed}, nil
		},
	}
}

func TestOpenRelaySuccess(t *testing.T) {
	lockers := wiredLockers()
	audit := &mockAudit{}
	hubMock := &mockHub{openFunc: func(ctx context.Context, s model.HubSettings, relayID string) (*hub.RelayResponse, error) {
		return &hub.RelayResponse{StatusCode: 200, Body: json.RawMessage(`{"state":"on"}`)}, nil
	}}
	svc := newHubService(lockers, audit, hubMock)

	res, err := svc.OpenRelay(context.Background(), 42, "hub-1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != relayOpenedMessage || res.Warning != "" {
		t.Fatalf("unexpected outcome: message=%q warning=%q", res.Message, res.Warning)
	}
	if len(lockers.markOpenCalls) != 1 || lockers.markOpenCalls[0] != 3 {
		t.Fatalf("locker 3 should have been marked open, calls=%v", lockers.markOpenCalls)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionAjaxLocalOpen {
		t.Fatalf("expected one ajax_local_open entry, got %+v", audit.entries)
	}
	if audit.entries[0].LockerID == nil || *audit.entries[0].LockerID != 3 {
		t.Fatal("admin path must log with the locker id set")
	}
}

func TestOpenRelayFallbackOnHubError(t *testing.T) {
	lockers := wiredLockers()
	audit := &mockAudit{}
	hubMock := &mockHub{openFunc: func(ctx context.Context, s model.HubSettings, relayID string) (*hub.RelayResponse, error) {
		return nil, errors.New("hub returned HTTP 503: Service Unavailable")
	}}
	svc := newHubService(lockers, audit, hubMock)

	res, err := svc.OpenRelay(context.Background(), 42, "hub-1", "2")
	if err != nil {
		t.Fatalf("hub failure must not fail the action, got %v", err)
	}
	if !strings.Contains(res.Message, "(HUB may be offline)") {
		t.Fatalf("fallback message must flag the offline hub, got %q", res.Message)
	}
	if res.Warning == "" {
		t.Fatal("fallback must carry a warning")
	}
	// fail open: the locker row is still flipped
	if len(lockers.markOpenCalls) != 1 {
		t.Fatalf("locker must be marked open despite the hub error, calls=%v", lockers.markOpenCalls)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionAjaxLocalOpenFallback {
		t.Fatalf("expected one ajax_local_open_fallback entry, got %+v", audit.entries)
	}
	var meta map[string]any
	if err := json.Unmarshal(audit.entries[0].Metadata, &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if !strings.Contains(meta["error"].(string), "503") {
		t.Fatalf("HTTP error must be captured in metadata, got %v", meta["error"])
	}
}

func TestOpenRelayUnknownRelayStillLogs(t *testing.T) {
	lockers := &mockLockers{
		byHubRelayFunc: func(ctx context.Context, hubID, relayID string) (*model.Locker, error) {
			return nil, repository.ErrLockerNotFound
		},
	}
	audit := &mockAudit{}
	svc := newHubService(lockers, audit, &mockHub{})

	res, err := svc.OpenRelay(context.Background(), 42, "hub-1", "9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.LockerID != nil {
		t.Fatal("no locker row is wired to this relay")
	}
	if len(lockers.markOpenCalls) != 0 {
		t.Fatal("nothing to mark open for an unknown relay")
	}
	if len(audit.entries) != 1 || audit.entries[0].LockerID != nil {
		t.Fatalf("audit entry must exist with NULL locker id, got %+v", audit.entries)
	}
}

func TestStatusSurvivesUnreachableHub(t *testing.T) {
	hubMock := &mockHub{statusFunc: func(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	svc := newHubService(wiredLockers(), &mockAudit{}, hubMock)

	doc, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("unreachable hub must not fail get_status, got %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(doc, &out); err != nil {
		t.Fatalf("synthesized status is not JSON: %v", err)
	}
	if out["status"] != "offline" || out["error"] == "" {
		t.Fatalf("expected offline document with embedded error, got %v", out)
	}
}

func TestDevicesSurvivesUnreachableHub(t *testing.T) {
	hubMock := &mockHub{devicesFunc: func(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
		return nil, errors.New("context deadline exceeded")
	}}
	svc := newHubService(wiredLockers(), &mockAudit{}, hubMock)

	doc, err := svc.Devices(context.Background())
	if err != nil {
		t.Fatalf("unreachable hub must not fail list_devices, got %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(doc, &out); err != nil {
		t.Fatalf("synthesized device list is not JSON: %v", err)
	}
	if _, ok := out["devices"]; !ok {
		t.Fatalf("expected empty devices array, got %v", out)
	}
}

func TestHubActionsRequireConfiguredIP(t *testing.T) {
	svc := newHubService(wiredLockers(), &mockAudit{}, &mockHub{})
	svc.Settings = &mockSettings{settings: model.HubSettings{}}

	if _, err := svc.OpenRelay(context.Background(), 42, "hub-1", "2"); !errors.Is(err, ErrHubNotConfigured) {
		t.Fatalf("open_relay: expected ErrHubNotConfigured, got %v", err)
	}
	if _, err := svc.Status(context.Background()); !errors.Is(err, ErrHubNotConfigured) {
		t.Fatalf("get_status: expected ErrHubNotConfigured, got %v", err)
	}
	if _, err := svc.Devices(context.Background()); !errors.Is(err, ErrHubNotConfigured) {
		t.Fatalf("list_devices: expected ErrHubNotConfigured, got %v", err)
	}
}
