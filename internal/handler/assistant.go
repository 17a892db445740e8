package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workspace-booking/internal/assistant"
    "github.com/iliyamo/workspace-booking/internal/service"
)

// AssistantHandler exposes the rule-based assistant.
type AssistantHandler struct {
    Assistant *assistant.Assistant
}

func NewAssistantHandler(a *assistant.Assistant) *AssistantHandler {
    if a == nil {
        panic("nil assistant passed to NewAssistantHandler")
    }
    return &AssistantHandler{Assistant: a}
}

type messageRequest struct {
    Text string `json:"text" validate:"required,max=2000"`
}

// Message handles POST /v1/assistant/messages.
func (h *AssistantHandler) Message(c echo.Context) error {
    var req messageRequest
    if err := bindJSON(c, &req); err != nil {
        return respondError(c, err)
    }
    reply, err := h.Assistant.Respond(c.Request().Context(), session(c), req.Text)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, reply)
}

// Book handles POST /v1/assistant/bookings, accepting a suggested space.
func (h *AssistantHandler) Book(c echo.Context) error {
    var req assistant.BookRequest
    if err := c.Bind(&req); err != nil {
        return respondError(c, &service.ValidationError{Fields: map[string]string{"body": "invalid request body"}})
    }
    res, err := h.Assistant.Book(c.Request().Context(), session(c), req)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, createdBody(res))
}

// Dismiss handles POST /v1/assistant/dismissals.
func (h *AssistantHandler) Dismiss(c echo.Context) error {
    var req assistant.DismissRequest
    if err := c.Bind(&req); err != nil {
        return respondError(c, &service.ValidationError{Fields: map[string]string{"body": "invalid request body"}})
    }
    if err := h.Assistant.Dismiss(c.Request().Context(), session(c), req); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
