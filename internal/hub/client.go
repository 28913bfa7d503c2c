// Package hub talks to the physical smart-locker hub over its local-network
// HTTP API.  The hub is a best-effort device: it may be powered off or
// unreachable, so every call is a single attempt with a bounded timeout and
// callers decide whether a failure is fatal (it usually is not).
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rentle/smart-locker/internal/model"
)

// Client issues commands against a hub's HTTP API.  The zero value is not
// usable; construct with NewClient.
type Client struct {
	http *http.Client
}

// NewClient returns a hub client with a 5 second timeout.  The hub sits on a
// local network and either answers quickly or not at all; without the bound a
// powered-off hub would hang unlock requests indefinitely.
func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: 5 * time.Second}}
}

// NewClientWithHTTP allows injecting a custom *http.Client, mainly for tests.
func NewClientWithHTTP(h *http.Client) *Client { return &Client{http: h} }

// RelayResponse carries the hub's raw reply to an open command.
type RelayResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// do performs one GET against the hub, attaching basic auth only when both
// credentials are configured.
func (c *Client) do(ctx context.Context, s model.HubSettings, path string) (int, []byte, error) {
	url := fmt.Sprintf("http://%s%s", s.IP, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	if s.HasAuth() {
		req.SetBasicAuth(s.Username, s.Password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// OpenRelay sends the open command for one relay switch.  A non-2xx status
// is returned as an error carrying the status code so callers can record it
// in the audit trail.
func (c *Client) OpenRelay(ctx context.Context, s model.HubSettings, relayID string) (*RelayResponse, error) {
	status, body, err := c.do(ctx, s, fmt.Sprintf("/api/relay/%s/open", relayID))
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("hub returned HTTP %d: %s", status, truncate(body, 200))
	}
	return &RelayResponse{StatusCode: status, Body: normalizeJSON(body)}, nil
}

// Status fetches the hub health document.
func (c *Client) Status(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
	status, body, err := c.do(ctx, s, "/api/status")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("hub returned HTTP %d: %s", status, truncate(body, 200))
	}
	return normalizeJSON(body), nil
}

// Devices fetches the hub's device list.
func (c *Client) Devices(ctx context.Context, s model.HubSettings) (json.RawMessage, error) {
	status, body, err := c.do(ctx, s, "/api/devices")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("hub returned HTTP %d: %s", status, truncate(body, 200))
	}
	return normalizeJSON(body), nil
}

// normalizeJSON returns the body as-is when it is valid JSON and wraps it as
// a JSON string otherwise, so responses can always be embedded in a JSON
// payload.
func normalizeJSON(body []byte) json.RawMessage {
	if json.Valid(body) && len(body) > 0 {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
