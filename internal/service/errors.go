// Package service implements the unlock and hub-relay flows on top of the
// repository and hub layers.  Handlers translate the sentinel errors below
// into HTTP responses; everything else is an internal failure.
package service

import "errors"

// ErrNotAuthorized covers every booking-side denial: unknown booking, not
// owned by the caller, unpaid, not confirmed, or outside its time window.
// The causes are collapsed on purpose so a response never reveals whether a
// booking id exists; the specific cause is written to the server log.
var ErrNotAuthorized = errors.New("booking not found or not authorized")

// ErrHubNotConfigured is returned when the hub IP setting is unset.
var ErrHubNotConfigured = errors.New("hub ip not configured")
