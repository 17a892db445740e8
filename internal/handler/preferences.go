package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workspace-booking/internal/model"
    "github.com/iliyamo/workspace-booking/internal/service"
)

type PreferenceHandler struct {
    Preferences *service.PreferenceService
}

func NewPreferenceHandler(prefs *service.PreferenceService) *PreferenceHandler {
    if prefs == nil {
        panic("nil service passed to NewPreferenceHandler")
    }
    return &PreferenceHandler{Preferences: prefs}
}

// Get handles GET /v1/preferences.  Users without a stored row get the
// defaults.
func (h *PreferenceHandler) Get(c echo.Context) error {
    p, err := h.Preferences.Get(c.Request().Context(), session(c))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// Put handles PUT /v1/preferences.  The body replaces the stored row.
func (h *PreferenceHandler) Put(c echo.Context) error {
    var p model.Preferences
    if err := c.Bind(&p); err != nil {
        return respondError(c, &service.ValidationError{Fields: map[string]string{"body": "invalid request body"}})
    }
    saved, err := h.Preferences.Update(c.Request().Context(), session(c), p)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, saved)
}
