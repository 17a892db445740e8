package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workspace-booking/internal/model"
    "github.com/iliyamo/workspace-booking/internal/service"
)

// BookingHandler exposes the session user's bookings.  Routes are mounted
// behind JWTAuth and LoadSession.
type BookingHandler struct {
    Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
    if bookings == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: bookings}
}

// Create handles POST /v1/bookings.  A booking that was stored but whose
// confirmation could not be dispatched is still a 201, with a warning.
func (h *BookingHandler) Create(c echo.Context) error {
    var req model.BookingRequest
    if err := c.Bind(&req); err != nil {
        return respondError(c, &service.ValidationError{Fields: map[string]string{"body": "invalid request body"}})
    }
    res, err := h.Bookings.Create(c.Request().Context(), session(c), req)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, createdBody(res))
}

func createdBody(res service.CreateResult) echo.Map {
    body := echo.Map{"booking": res.Booking}
    if res.NotificationWarning != nil {
        body["warning"] = "booking confirmed but the confirmation email could not be sent"
    }
    return body
}

// List handles GET /v1/bookings.
func (h *BookingHandler) List(c echo.Context) error {
    upcoming, past, err := h.Bookings.Overview(c.Request().Context(), session(c))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"upcoming": upcoming, "past": past})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    b, err := h.Bookings.Get(c.Request().Context(), session(c), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

// Cancel handles DELETE /v1/bookings/:id.  Repeating it is harmless.
func (h *BookingHandler) Cancel(c echo.Context) error {
    if err := h.Bookings.Cancel(c.Request().Context(), session(c), c.Param("id")); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}
