package router // route registration for the locker service

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/rentle/smart-locker/internal/config"
	"github.com/rentle/smart-locker/internal/handler"
	"github.com/rentle/smart-locker/internal/middleware"
)

// RegisterBase installs the global middleware and unauthenticated routes.
// The API is CORS-open: browser clients on the marketing site call it
// directly, and preflight OPTIONS requests are answered by the CORS
// middleware with an empty 200.
func RegisterBase(e *echo.Echo) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the authentication endpoints.  Register/login/refresh/
// logout are open; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterCatalog wires the public product catalog behind the response
// cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1/products", middleware.CacheGET(cacheCfg, rdb))
	g.GET("", h.ListProducts)
	g.GET("/:id", h.GetProduct)
}

// RegisterUnlock wires the customer unlock endpoint: JWT first, then the
// rate limiter so only authenticated attempts consume bucket tokens.
func RegisterUnlock(e *echo.Echo, h *handler.UnlockHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/lockers")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RateLimit(rlCfg, rdb))
	g.POST("/unlock", h.HandleUnlock)
}

// RegisterAdmin wires the hub integration and back-office locker routes.
// Every route checks the admin role row in the database per request.
func RegisterAdmin(e *echo.Echo, hub *handler.HubHandler, lockers *handler.AdminLockerHandler, jwtSecret string, roles middleware.RoleChecker) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireAdmin(roles))
	g.POST("/hub", hub.HandleAction)
	g.GET("/admin/lockers", lockers.ListLockers)
	g.POST("/admin/lockers/:id/close", lockers.CloseLocker)
	g.GET("/admin/open-logs", lockers.ListOpenLogs)
}
