package service

import (
	"context"
	"encoding/json"

	"github.com/rentle/smart-locker/internal/hub"
	"github.com/rentle/smart-locker/internal/model"
)

// Mock stores for the service tests, in the func-field style: a test sets
// only the behaviors it cares about.

type mockBookings struct {
	getFunc func(ctx context.Context, id uint64) (*model.Booking, error)
}

func (m *mockBookings) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return m.getFunc(ctx, id)
}

type mockLockers struct {
	claimFunc      func(ctx context.Context) (*model.Locker, error)
	byHubRelayFunc func(ctx context.Context, hubID, relayID string) (*model.Locker, error)
	markOpenErr    error
	markOpenCalls  []uint64
}

func (m *mockLockers) ClaimNextClosed(ctx context.Context) (*model.Locker, error) {
	return m.claimFunc(ctx)
}

func (m *mockLockers) GetByHubRelay(ctx context.Context, hubID, relayID string) (*model.Locker, error) {
	return m.byHubRelayFunc(ctx, hubID, relayID)
}

func (m *mockLockers) MarkOpen(ctx context.Context, id uint64) error {
	m.markOpenCalls = append(m.markOpenCalls, id)
	return m.markOpenErr
}

type mockAudit struct {
	entries []model.OpenLogEntry
	err     error
}

func (m *mockAudit) Append(ctx context.Context, e model.OpenLogEntry) error {
	m.entries = append(m.entries, e)
	return m.err
}

type mockSettings struct {
	settings model.HubSettings
	err      error
}

func (m *mockSettings) HubSettings(ctx context.Context) (model.HubSettings, error) {
	return m.settings, m.err
}

type mockHub struct {
	openCalls   int
	openFunc    func(ctx context.Context, s model.HubSettings, relayID string) (*hub.RelayResponse, error)
	statusFunc  func(ctx context.Context, s model.HubSettings) (json.RawMessage, error)
	devicesFunc func(ctx context.Context, s model.HubSettings) (json.RawMessage, error)
}

func (m *mockHub) OpenRelay(ctx context.Context, s model.HubSettings, relayID string) (*hub.RelayResponse, error) {
	m.openCalls++
	if m.openFunc == nil {
		return &hub.RelayResponse{StatusCode: 200, Body: json.RawMessage(`{"ok":true}`)}, nil
	}
	return m.openFunc(ctx, s, relayID)
}

func (m *mockHub) Status(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
	return m.statusFunc(ctx, s)
}

func (m *mockHub) Devices(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
	return m.devicesFunc(ctx, s)
}
