package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/middleware"
	"github.com/rentle/smart-locker/internal/repository"
	"github.com/rentle/smart-locker/internal/service"
)

// UnlockHandler exposes the customer unlock endpoint.  JWT authentication
// runs in middleware; authorization against the booking happens in the
// service.
type UnlockHandler struct {
	Unlock *service.UnlockService
}

// NewUnlockHandler constructs an UnlockHandler.
func NewUnlockHandler(svc *service.UnlockService) *UnlockHandler {
	if svc == nil {
		panic("nil service passed to NewUnlockHandler")
	}
	return &UnlockHandler{Unlock: svc}
}

type unlockRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Action    string `json:"action" validate:"omitempty,oneof=open"`
}

// HandleUnlock handles POST /v1/lockers/unlock.  The caller supplies a
// booking id; on success one locker is opened and identified in the
// response.  Every failure, including an unparseable booking id, maps to a
// 500 with success:false — the response never reveals whether a booking
// exists.  A hub that did not confirm the command is still a success, with
// a warning attached.
func (h *UnlockHandler) HandleUnlock(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Unauthorized"})
	}

	var req unlockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "booking_id is required"})
	}

	bookingID, err := strconv.ParseUint(req.BookingID, 10, 64)
	if err != nil || bookingID == 0 {
		// malformed ids get the same collapsed denial as unknown ones
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "error": "Booking not found or not authorized",
		})
	}

	res, err := h.Unlock.Unlock(c.Request().Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "error": "Booking not found or not authorized",
			})
		case errors.Is(err, repository.ErrNoLockersAvailable):
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "error": "No available lockers found",
			})
		case errors.Is(err, service.ErrHubNotConfigured):
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "error": "Hub IP address not configured",
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false, "error": "internal error",
			})
		}
	}

	resp := echo.Map{
		"success":     true,
		"message":     "Locker opened successfully",
		"booking_id":  res.Booking.ID,
		"locker_id":   res.Locker.ID,
		"locker_name": res.Locker.Name,
	}
	if res.Warning != "" {
		resp["message"] = res.Warning
		resp["warning"] = res.Warning
	}
	if res.HubResponse != nil {
		resp["hub_response"] = res.HubResponse
	}
	return c.JSON(http.StatusOK, resp)
}
