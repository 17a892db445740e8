package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/workspace-booking/internal/middleware"
    "github.com/iliyamo/workspace-booking/internal/model"
    "github.com/iliyamo/workspace-booking/internal/service"
)

// RequestValidator plugs the service validator into echo so c.Validate
// reports the same field messages as the services.
type RequestValidator struct{}

func (RequestValidator) Validate(i any) error { return service.Validate(i) }

// respondError translates service errors into the JSON error envelope.
func respondError(c echo.Context, err error) error {
    var (
        verr *service.ValidationError
        cerr *service.ConflictError
        aerr *service.AuthError
    )
    switch {
    case errors.As(err, &verr):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": verr.Fields})
    case errors.As(err, &cerr):
        return c.JSON(http.StatusConflict, echo.Map{"error": cerr.Reason})
    case errors.As(err, &aerr):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case errors.Is(err, service.ErrSpaceNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
    case errors.Is(err, service.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, service.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// bindJSON decodes the body into v and runs the registered validator.
func bindJSON(c echo.Context, v any) error {
    if err := c.Bind(v); err != nil {
        return &service.ValidationError{Fields: map[string]string{"body": "invalid request body"}}
    }
    return c.Validate(v)
}

func session(c echo.Context) *model.Session {
    return middleware.SessionFrom(c)
}

// csvParam splits a comma separated query value, dropping blanks.
func csvParam(c echo.Context, name string) []string {
    return model.SplitList(c.QueryParam(name))
}

func boolParam(c echo.Context, name string) (*bool, error) {
    raw := strings.TrimSpace(c.QueryParam(name))
    if raw == "" {
        return nil, nil
    }
    v, err := strconv.ParseBool(raw)
    if err != nil {
        return nil, &service.ValidationError{Fields: map[string]string{name: "must be true or false"}}
    }
    return &v, nil
}
