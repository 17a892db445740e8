package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog/log"
)

// RequestLogger writes one zerolog line per request.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            res := c.Response()
            ev := log.Info()
            if res.Status >= 500 {
                ev = log.Error()
            }
            ev.Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
                Str("method", c.Request().Method).
                Str("path", c.Path()).
                Int("status", res.Status).
                Str("user", userID(c)).
                Str("ip", c.RealIP()).
                Dur("latency", time.Since(start)).
                Msg("request")
            return nil
        }
    }
}
