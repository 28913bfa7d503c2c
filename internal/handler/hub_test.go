package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/hub"
	"github.com/rentle/smart-locker/internal/model"
	"github.com/rentle/smart-locker/internal/repository"
	"github.com/rentle/smart-locker/internal/service"
)

type offlineHub struct{}

func (offlineHub) OpenRelay(ctx context.Context, s model.HubSettings, relayID string) (*hub.RelayResponse, error) {
	return nil, errors.New("hub returned HTTP 503: Service Unavailable")
}
func (offlineHub) Status(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
	return nil, errors.New("dial tcp: connection refused")
}
func (offlineHub) Devices(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type unconfiguredSettings struct{}

func (unconfiguredSettings) HubSettings(ctx context.Context) (model.HubSettings, error) {
	return model.HubSettings{}, nil
}

// recordingAudit collects entries so tests can assert on the audit trail.
type recordingAudit struct{ entries []model.OpenLogEntry }

func (a *recordingAudit) Append(ctx context.Context, e model.OpenLogEntry) error {
	a.entries = append(a.entries, e)
	return nil
}

type singleLocker struct{ l model.Locker }

func (s singleLocker) ClaimNextClosed(ctx context.Context) (*model.Locker, error) {
	return nil, repository.ErrNoLockersAvailable
}
func (s singleLocker) GetByHubRelay(ctx context.Context, hubID, relayID string) (*model.Locker, error) {
	if s.l.HubID == hubID && s.l.RelayID == relayID {
		cp := s.l
		return &cp, nil
	}
	return nil, repository.ErrLockerNotFound
}
func (s singleLocker) MarkOpen(ctx context.Context, id uint64) error { return nil }

func postHub(t *testing.T, h *HubHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/hub", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(42))
	if err := h.HandleAction(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestHubOpenRelayFallbackKeepsSuccess(t *testing.T) {
	audit := &recordingAudit{}
	svc := &service.HubService{
		Lockers:  singleLocker{l: model.Locker{ID: 3, Name: "L1", HubID: "hub-1", RelayID: "2"}},
		Audit:    audit,
		Settings: fixedSettings{},
		Hub:      offlineHub{},
	}
	h := NewHubHandler(svc)

	rec := postHub(t, h, `{"action":"open_relay","hub_id":"hub-1","relay_id":"2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("fallback must still be HTTP 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["success"] != true {
		t.Fatalf("fallback must report success, got %v", out)
	}
	if msg, _ := out["message"].(string); !strings.Contains(msg, "(HUB may be offline)") {
		t.Fatalf("message must flag the offline hub, got %q", msg)
	}
	if out["warning"] == nil {
		t.Fatal("fallback response must carry a warning field")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionAjaxLocalOpenFallback {
		t.Fatalf("expected an ajax_local_open_fallback audit entry, got %+v", audit.entries)
	}
	var meta map[string]any
	if err := json.Unmarshal(audit.entries[0].Metadata, &meta); err != nil {
		t.Fatalf("metadata not JSON: %v", err)
	}
	if !strings.Contains(meta["error"].(string), "503") {
		t.Fatalf("HTTP error must be recorded in metadata, got %v", meta)
	}
}

func TestHubGetStatusOffline(t *testing.T) {
	svc := &service.HubService{
		Lockers:  singleLocker{},
		Audit:    &recordingAudit{},
		Settings: fixedSettings{},
		Hub:      offlineHub{},
	}
	rec := postHub(t, NewHubHandler(svc), `{"action":"get_status"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("get_status must survive an unreachable hub, got %d", rec.Code)
	}
	out := decode(t, rec)
	status, ok := out["status"].(map[string]any)
	if !ok || status["status"] != "offline" {
		t.Fatalf("expected synthesized offline status, got %v", out)
	}
}

func TestHubNotConfiguredIs400(t *testing.T) {
	svc := &service.HubService{
		Lockers:  singleLocker{},
		Audit:    &recordingAudit{},
		Settings: unconfiguredSettings{},
		Hub:      offlineHub{},
	}
	rec := postHub(t, NewHubHandler(svc), `{"action":"open_relay","hub_id":"hub-1","relay_id":"2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing hub ip must be a 400, got %d", rec.Code)
	}
	out := decode(t, rec)
	if msg, _ := out["error"].(string); !strings.Contains(msg, "not configured") {
		t.Fatalf("error should guide the admin to settings, got %q", msg)
	}
}

func TestHubRejectsUnknownAction(t *testing.T) {
	svc := &service.HubService{
		Lockers:  singleLocker{},
		Audit:    &recordingAudit{},
		Settings: fixedSettings{},
		Hub:      offlineHub{},
	}
	rec := postHub(t, NewHubHandler(svc), `{"action":"reboot"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d", rec.Code)
	}
}

func TestHubOpenRelayRequiresIDs(t *testing.T) {
	svc := &service.HubService{
		Lockers:  singleLocker{},
		Audit:    &recordingAudit{},
		Settings: fixedSettings{},
		Hub:      offlineHub{},
	}
	rec := postHub(t, NewHubHandler(svc), `{"action":"open_relay"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without hub_id/relay_id, got %d", rec.Code)
	}
}
