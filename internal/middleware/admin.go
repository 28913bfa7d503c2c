package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/model"
)

// RoleChecker is the slice of the user repository the admin gate needs.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uint64, role string) (bool, error)
}

// RequireAdmin rejects any caller without an admin row in user_roles.  The
// lookup hits the database on every request by design: the gate must run
// before any hub traffic, and revoking the role row must take effect
// immediately rather than at token expiry.
func RequireAdmin(roles RoleChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Unauthorized"})
			}
			isAdmin, err := roles.HasRole(c.Request().Context(), uid, model.RoleAdmin)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "role lookup failed"})
			}
			if !isAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Admin access required"})
			}
			return next(c)
		}
	}
}
