package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/model"
	"github.com/rentle/smart-locker/internal/repository"
)

// AdminLockerHandler exposes the back-office view of the locker pool and the
// explicit close action.  Lockers never close themselves; an admin (or a
// worker returning a device) flips them back through this endpoint.
type AdminLockerHandler struct {
	Lockers *repository.LockerRepo
	Logs    *repository.OpenLogRepo
}

// NewAdminLockerHandler constructs an AdminLockerHandler.
func NewAdminLockerHandler(lockers *repository.LockerRepo, logs *repository.OpenLogRepo) *AdminLockerHandler {
	if lockers == nil || logs == nil {
		panic("nil repository passed to NewAdminLockerHandler")
	}
	return &AdminLockerHandler{Lockers: lockers, Logs: logs}
}

// ListLockers handles GET /v1/admin/lockers.
func (h *AdminLockerHandler) ListLockers(c echo.Context) error {
	lockers, err := h.Lockers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(lockers))
	for _, l := range lockers {
		m := echo.Map{
			"id":       l.ID,
			"name":     l.Name,
			"hub_id":   l.HubID,
			"relay_id": l.RelayID,
			"status":   l.Status,
		}
		if l.LastOpenedAt != nil {
			m["last_opened_at"] = l.LastOpenedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"lockers": out})
}

// CloseLocker handles POST /v1/admin/lockers/:id/close.  Closing is always
// an explicit action and leaves last_opened_at untouched.
func (h *AdminLockerHandler) CloseLocker(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid locker id"})
	}
	if err := h.Lockers.Close(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLockerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "locker not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "status": model.LockerClosed})
}

// ListOpenLogs handles GET /v1/admin/open-logs?limit=N, newest first.
func (h *AdminLockerHandler) ListOpenLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.Logs.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		m := echo.Map{
			"id":         e.ID,
			"action":     e.Action,
			"metadata":   e.Metadata,
			"created_at": e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if e.UserID != nil {
			m["user_id"] = *e.UserID
		}
		if e.LockerID != nil {
			m["locker_id"] = *e.LockerID
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}
