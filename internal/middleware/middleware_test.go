package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/workspace-booking/internal/config"
    "github.com/iliyamo/workspace-booking/internal/model"
    "github.com/iliyamo/workspace-booking/internal/testfixtures"
    "github.com/iliyamo/workspace-booking/internal/utils"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuthAndLoadSession(t *testing.T) {
    st := testfixtures.NewStore(t)
    alice := st.AddUser(t, "alice")
    inactive := model.UserProfile{ID: "00000000-0000-0000-0000-00000000dead", Email: "gone@example.com", FullName: "Gone", Role: "member"}
    require.NoError(t, st.Users.Create(t.Context(), inactive, testfixtures.ReferenceTime()))

    e := echo.New()
    e.GET("/me", func(c echo.Context) error {
        return c.String(http.StatusOK, SessionFrom(c).Profile.Email)
    }, JWTAuth("s3cret"), LoadSession(st.Users))

    token := func(sub string) string {
        at, err := utils.NewAccessToken("s3cret", sub, "member", time.Hour)
        require.NoError(t, err)
        return "Bearer " + at.Token
    }

    cases := []struct {
        name   string
        header string
        status int
    }{
        {"no header", "", http.StatusUnauthorized},
        {"not bearer", "Basic abc", http.StatusUnauthorized},
        {"garbage", "Bearer nope", http.StatusUnauthorized},
        {"unknown user", token("00000000-0000-0000-0000-000000000000"), http.StatusUnauthorized},
        {"inactive user", token(inactive.ID), http.StatusUnauthorized},
        {"active user", token(alice.UserID), http.StatusOK},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/me", nil)
            if tc.header != "" {
                req.Header.Set("Authorization", tc.header)
            }
            rec := serve(e, req)
            assert.Equal(t, tc.status, rec.Code)
            if tc.status == http.StatusOK {
                assert.Equal(t, "alice@example.com", rec.Body.String())
            }
        })
    }
}

func TestTokenBucketInProcessFallback(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            5 * time.Hour,
        KeyStrategy:    "ip",
        Prefix:         "rl",
    }
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, nil))

    req := func() *httptest.ResponseRecorder {
        r := httptest.NewRequest(http.MethodGet, "/x", nil)
        r.RemoteAddr = "10.0.0.1:1234"
        return serve(e, r)
    }

    assert.Equal(t, http.StatusNoContent, req().Code)
    assert.Equal(t, http.StatusNoContent, req().Code)
    blocked := req()
    assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
    assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
    assert.Equal(t, "2", blocked.Header().Get("X-RateLimit-Limit"))

    other := httptest.NewRequest(http.MethodGet, "/x", nil)
    other.RemoteAddr = "10.0.0.2:1234"
    assert.Equal(t, http.StatusNoContent, serve(e, other).Code, "buckets are per key")
}

func TestTokenBucketDisabled(t *testing.T) {
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
        NewTokenBucket(config.RateLimitConfig{Enabled: false, Capacity: 1}, nil))
    for i := 0; i < 5; i++ {
        assert.Equal(t, http.StatusNoContent, serve(e, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
    }
}

func TestBuildRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
    req.RemoteAddr = "10.0.0.1:1234"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/bookings")
    WithSession(c, &model.Session{UserID: "u1"})

    assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:user:u1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
    assert.Equal(t, "rl:ip:10.0.0.1:user:u1:route:POST /v1/bookings", buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestCatalogKey(t *testing.T) {
    e := echo.New()
    key := func(path, target string, params ...string) string {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        c.SetPath(path)
        if len(params) > 0 {
            c.SetParamNames(params[0])
            c.SetParamValues(params[1])
        }
        return catalogKey("cache", c)
    }

    base := key("/v1/spaces", "/v1/spaces?type=desk&features=wifi,monitor")
    assert.Regexp(t, `^cache:catalog:[0-9a-f]{40}$`, base)
    assert.Equal(t, base, key("/v1/spaces", "/v1/spaces?features=monitor,%20wifi,wifi&type=desk"), "order and duplicates")
    assert.Equal(t, base, key("/v1/spaces", "/v1/spaces?type=desk&features=wifi,monitor&utm_source=mail"), "unknown params")
    assert.NotEqual(t, base, key("/v1/spaces", "/v1/spaces?type=room&features=wifi,monitor"))
    assert.NotEqual(t, base, key("/v1/spaces", "/v1/spaces?type=desk&features=wifi"))

    one := key("/v1/spaces/:id", "/v1/spaces/a", "id", "a")
    assert.NotEqual(t, one, key("/v1/spaces/:id", "/v1/spaces/b", "id", "b"))
    assert.NotEqual(t, one, key("/v1/spaces", "/v1/spaces"))
}

func TestBodyRecorderStopsKeepingPastLimit(t *testing.T) {
    w := httptest.NewRecorder()
    rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK, limit: 8}

    _, _ = rec.Write([]byte("12345"))
    assert.False(t, rec.overflow)
    _, _ = rec.Write([]byte("6789"))
    assert.True(t, rec.overflow)
    assert.Zero(t, rec.buf.Len())
    assert.Equal(t, "123456789", w.Body.String(), "the client still gets everything")
}

func TestCacheWithoutRedisPassesThrough(t *testing.T) {
    calls := 0
    e := echo.New()
    e.GET("/v1/spaces", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, echo.Map{"n": calls})
    }, NewRedisCache(config.CacheConfig{Enabled: true}, nil))

    serve(e, httptest.NewRequest(http.MethodGet, "/v1/spaces", nil))
    rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/spaces", nil))
    assert.Equal(t, 2, calls)
    assert.Empty(t, rec.Header().Get("X-Cache"))
}
