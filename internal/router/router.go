package router // package router defines how HTTP routes are registered for the API

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/raniadwi/recycle-market/internal/handler"    // handlers implementing business logic
	"github.com/raniadwi/recycle-market/internal/middleware" // auth, cache and rate-limit middleware
)

// RegisterRoutes registers routes that need no handler state: the health
// check and the catch-all that reports unmatched paths in the legacy
// `Route Not Found: <path>` shape clients depend on.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{
			"message": fmt.Sprintf("Route Not Found: %s", c.Request().RequestURI),
		})
	})
}

// RegisterAuth wires the /api/auth group. Register and login are public but
// rate limited; the admin management endpoints sit behind authentication plus
// the super-admin gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)

	admins := g.Group("/admins", authn, middleware.RequireSuperAdmin())
	admins.GET("", a.ListAdmins)
	admins.DELETE("/:id", a.DeleteAdmin)
}

// RegisterProducts wires the /api/products group. The available listing is
// public and cached; everything else requires authentication, and the full
// listing additionally requires super-admin.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, authn, cache echo.MiddlewareFunc) {
	g := e.Group("/api/products")
	g.GET("/available", p.Available, cache)
	g.GET("/mine", p.Mine, authn)
	g.GET("/all", p.All, authn, middleware.RequireSuperAdmin())
	g.POST("", p.Create, authn)
	g.PUT("/:id", p.Update, authn)
	g.DELETE("/:id", p.Delete, authn)
}
