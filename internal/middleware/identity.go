package middleware

// identity.go holds the caller lookup shared by the rate limiter and the
// request logger.

import "github.com/labstack/echo/v4"

// userID returns the session user, falling back to the token subject, and
// "anon" for unauthenticated requests.
func userID(c echo.Context) string {
    if sess := SessionFrom(c); sess.Authenticated() {
        return sess.UserID
    }
    if v, ok := c.Get("user_id").(string); ok && v != "" {
        return v
    }
    return "anon"
}
