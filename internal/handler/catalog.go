package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/workspace-booking/internal/model"
    "github.com/iliyamo/workspace-booking/internal/service"
)

// CatalogHandler serves the public, read-only space endpoints.
type CatalogHandler struct {
    Catalog *service.CatalogService
    Checker *service.AvailabilityChecker
}

// NewCatalogHandler panics if a dependency is nil.
func NewCatalogHandler(catalog *service.CatalogService, checker *service.AvailabilityChecker) *CatalogHandler {
    if catalog == nil || checker == nil {
        panic("nil service passed to NewCatalogHandler")
    }
    return &CatalogHandler{Catalog: catalog, Checker: checker}
}

// ListSpaces handles GET /v1/spaces.  Every query parameter is optional;
// features and equipment are comma separated and must all be present.
func (h *CatalogHandler) ListSpaces(c echo.Context) error {
    f, err := spaceFilter(c)
    if err != nil {
        return respondError(c, err)
    }
    spaces, err := h.Catalog.Search(c.Request().Context(), f)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": spaces})
}

func spaceFilter(c echo.Context) (model.SpaceFilter, error) {
    f := model.SpaceFilter{
        Location:  strings.TrimSpace(c.QueryParam("location")),
        Features:  csvParam(c, "features"),
        Equipment: csvParam(c, "equipment"),
        Search:    strings.TrimSpace(c.QueryParam("search")),
    }
    if t := strings.TrimSpace(c.QueryParam("type")); t != "" {
        if !model.ValidSpaceType(t) {
            return f, &service.ValidationError{Fields: map[string]string{"type": "must be one of desk room"}}
        }
        f.Type = model.SpaceType(t)
    }
    if raw := strings.TrimSpace(c.QueryParam("min_capacity")); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 0 {
            return f, &service.ValidationError{Fields: map[string]string{"min_capacity": "must be a non-negative integer"}}
        }
        f.MinCapacity = n
    }
    private, err := boolParam(c, "is_private")
    if err != nil {
        return f, err
    }
    f.IsPrivate = private
    bookable, err := boolParam(c, "bookable")
    if err != nil {
        return f, err
    }
    f.BookableOnly = bookable != nil && *bookable
    if st := strings.TrimSpace(c.QueryParam("status")); st != "" {
        switch s := model.SpaceStatus(st); s {
        case model.SpaceAvailable, model.SpaceMaintenance, model.SpaceReserved:
            f.Status = s
        default:
            return f, &service.ValidationError{Fields: map[string]string{"status": "must be one of available maintenance reserved"}}
        }
    }
    return f, nil
}

// GetSpace handles GET /v1/spaces/:id.
func (h *CatalogHandler) GetSpace(c echo.Context) error {
    sp, err := h.Catalog.Get(c.Request().Context(), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, sp)
}

// Places handles GET /v1/places.
func (h *CatalogHandler) Places(c echo.Context) error {
    places, err := h.Catalog.Places(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": places})
}

// Availability handles GET /v1/availability and answers whether one space
// is free for the slot.  An unknown space is a 404, not a free slot.
func (h *CatalogHandler) Availability(c echo.Context) error {
    spaceID := strings.TrimSpace(c.QueryParam("space_id"))
    if spaceID == "" {
        return respondError(c, &service.ValidationError{Fields: map[string]string{"space_id": "is required"}})
    }
    if _, err := h.Catalog.Get(c.Request().Context(), spaceID); err != nil {
        return respondError(c, err)
    }
    ok, err := h.Checker.IsAvailable(c.Request().Context(), spaceID,
        c.QueryParam("date"), c.QueryParam("start_time"), c.QueryParam("end_time"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"available": ok})
}

// AvailableSpaces handles GET /v1/available-spaces.
func (h *CatalogHandler) AvailableSpaces(c echo.Context) error {
    spaces, err := h.Catalog.AvailableFor(c.Request().Context(),
        c.QueryParam("date"), c.QueryParam("start_time"), c.QueryParam("end_time"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": spaces})
}

// SiteInfo handles GET /v1/site-info.
func (h *CatalogHandler) SiteInfo(c echo.Context) error {
    info, err := h.Catalog.SiteInfo(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, info)
}
