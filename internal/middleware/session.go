package middleware

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/workspace-booking/internal/model"
    "github.com/iliyamo/workspace-booking/internal/repository"
)

const sessionKey = "session"

// ProfileLoader resolves the profile behind a verified token subject.
type ProfileLoader interface {
    GetByID(ctx context.Context, id string) (model.UserProfile, error)
}

// LoadSession turns the "user_id" set by JWTAuth into a *model.Session.
// Unknown or inactive users are rejected with 401.
func LoadSession(users ProfileLoader) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, _ := c.Get("user_id").(string)
            if uid == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            profile, err := users.GetByID(c.Request().Context(), uid)
            if errors.Is(err, repository.ErrUserNotFound) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
            }
            if err != nil {
                log.Error().Err(err).Str("user_id", uid).Msg("load session profile")
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
            }
            if !profile.IsActive {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account disabled"})
            }
            c.Set(sessionKey, &model.Session{UserID: profile.ID, Profile: profile})
            return next(c)
        }
    }
}

// SessionFrom returns the session stored by LoadSession, or nil.
func SessionFrom(c echo.Context) *model.Session {
    sess, _ := c.Get(sessionKey).(*model.Session)
    return sess
}

// WithSession stores sess on c.  Handler tests use it to skip token
// verification.
func WithSession(c echo.Context, sess *model.Session) {
    c.Set(sessionKey, sess)
}
