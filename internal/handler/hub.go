package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/middleware"
	"github.com/rentle/smart-locker/internal/service"
)

// HubHandler exposes the admin hub-integration endpoint.  RequireAdmin
// middleware guards every route here; no hub traffic happens for callers
// without an admin role row.
type HubHandler struct {
	Svc *service.HubService
}

// NewHubHandler constructs a HubHandler.
func NewHubHandler(svc *service.HubService) *HubHandler {
	if svc == nil {
		panic("nil service passed to NewHubHandler")
	}
	return &HubHandler{Svc: svc}
}

type hubRequest struct {
	Action   string `json:"action" validate:"required,oneof=open_relay get_status list_devices"`
	HubID    string `json:"hub_id"`
	RelayID  string `json:"relay_id"`
	DeviceID string `json:"device_id"`
}

// hubNotConfiguredMsg guides the admin to the settings screen; surfaced as a
// 400 because the request was fine, the deployment is not.
const hubNotConfiguredMsg = "Hub IP address not configured. Set ajax_hub_ip in admin settings first."

// HandleAction handles POST /v1/hub, dispatching on the action field.
// Admins see rich error detail here, unlike the customer endpoint.
func (h *HubHandler) HandleAction(c echo.Context) error {
	adminID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Unauthorized"})
	}

	var req hubRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "action must be one of open_relay, get_status, list_devices"})
	}

	ctx := c.Request().Context()
	switch req.Action {
	case "open_relay":
		if req.HubID == "" || req.RelayID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "hub_id and relay_id are required for open_relay"})
		}
		res, err := h.Svc.OpenRelay(ctx, adminID, req.HubID, req.RelayID)
		if err != nil {
			return h.hubError(c, err)
		}
		resp := echo.Map{"success": true, "message": res.Message}
		if res.Warning != "" {
			resp["warning"] = res.Warning
		}
		if res.LockerID != nil {
			resp["locker_id"] = *res.LockerID
		}
		if res.HubResponse != nil {
			resp["hub_response"] = res.HubResponse
		}
		return c.JSON(http.StatusOK, resp)

	case "get_status":
		doc, err := h.Svc.Status(ctx)
		if err != nil {
			return h.hubError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "status": doc})

	case "list_devices":
		doc, err := h.Svc.Devices(ctx)
		if err != nil {
			return h.hubError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "devices": doc})
	}
	// unreachable after validation
	return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "unknown action"})
}

func (h *HubHandler) hubError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrHubNotConfigured) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": hubNotConfiguredMsg})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
}
