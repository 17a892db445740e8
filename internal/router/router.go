package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-booking/internal/handler"
)

// RegisterRoutes registers the probes.  /healthz answers while the process
// is up; /readyz also checks the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterPublic registers the unauthenticated catalog endpoints.  cache,
// when non-nil, is applied to the space listing and detail routes only;
// availability answers are always computed from storage.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	var cached []echo.MiddlewareFunc
	if cache != nil {
		cached = append(cached, cache)
	}
	e.GET("/v1/spaces", h.ListSpaces, cached...)
	e.GET("/v1/spaces/:id", h.GetSpace, cached...)
	e.GET("/v1/places", h.Places)
	e.GET("/v1/availability", h.Availability)
	e.GET("/v1/available-spaces", h.AvailableSpaces)
	e.GET("/v1/site-info", h.SiteInfo)
}

// Member groups the handlers that act for a signed-in user.
type Member struct {
	Bookings    *handler.BookingHandler
	Preferences *handler.PreferenceHandler
	Assistant   *handler.AssistantHandler
}

// RegisterMember registers session-scoped endpoints under /v1.  guards run
// in order before every handler; callers pass token verification, session
// loading and rate limiting.
func RegisterMember(e *echo.Echo, m Member, guards ...echo.MiddlewareFunc) {
	g := e.Group("/v1", guards...)

	g.POST("/bookings", m.Bookings.Create)
	g.GET("/bookings", m.Bookings.List)
	g.GET("/bookings/:id", m.Bookings.Get)
	g.DELETE("/bookings/:id", m.Bookings.Cancel)

	g.GET("/preferences", m.Preferences.Get)
	g.PUT("/preferences", m.Preferences.Put)

	g.POST("/assistant/messages", m.Assistant.Message)
	g.POST("/assistant/bookings", m.Assistant.Book)
	g.POST("/assistant/dismissals", m.Assistant.Dismiss)
}
