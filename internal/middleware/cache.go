package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "sort"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/workspace-booking/internal/config"
    "github.com/iliyamo/workspace-booking/internal/model"
)

// cachedResponse is what one catalog entry holds in Redis.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// bodyRecorder tees the response to the client and keeps a copy unless the
// body grows past limit.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
            r.overflow = true
            r.buf.Reset()
        } else {
            r.buf.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

// catalogKey identifies a catalog response by route, path parameters and
// the space filter parameters only.  Other query parameters and parameter
// order do not change the key; list parameters are compared as sets.
func catalogKey(prefix string, c echo.Context) string {
    var b strings.Builder
    b.WriteString(c.Path())
    for _, name := range c.ParamNames() {
        fmt.Fprintf(&b, "|%s=%s", name, c.Param(name))
    }
    for _, name := range model.SpaceFilterParams {
        raw := c.QueryParam(name)
        if model.SpaceFilterLists[name] {
            items := model.SplitList(raw)
            sort.Strings(items)
            raw = strings.Join(compact(items), ",")
        } else {
            raw = strings.TrimSpace(raw)
        }
        if raw != "" {
            fmt.Fprintf(&b, "|%s=%s", name, raw)
        }
    }
    sum := sha1.Sum([]byte(b.String()))
    return fmt.Sprintf("%s:catalog:%x", prefix, sum[:])
}

// compact drops adjacent duplicates from a sorted slice.
func compact(items []string) []string {
    out := items[:0]
    for i, it := range items {
        if i == 0 || it != items[i-1] {
            out = append(out, it)
        }
    }
    return out
}

// NewRedisCache caches successful GET responses of the public space catalog
// for cfg.TTL.  Requests carrying credentials bypass it, as do bodies larger
// than cfg.MaxBodyBytes.  With no Redis client the middleware is a no-op.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if req.Method != http.MethodGet || req.Header.Get(echo.HeaderAuthorization) != "" {
                return next(c)
            }
            key := catalogKey(cfg.Prefix, c)

            if raw, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(raw, &hit) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, hit.ContentType, hit.Body)
                }
            } else if !errors.Is(err, redis.Nil) {
                log.Warn().Err(err).Str("path", c.Path()).Msg("cache: lookup failed")
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow {
                return nil
            }

            entry, err := json.Marshal(cachedResponse{
                Status:      rec.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        rec.buf.Bytes(),
            })
            if err == nil {
                err = rdb.SetEx(context.Background(), key, entry, ttl).Err()
            }
            if err != nil {
                log.Warn().Err(err).Str("path", c.Path()).Msg("cache: store failed")
            }
            return nil
        }
    }
}
