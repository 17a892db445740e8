package model

import (
    "encoding/json"
    "strings"
    "time"
)

// SpaceType enumerates the kinds of bookable resources.
type SpaceType string

const (
    SpaceDesk SpaceType = "desk"
    SpaceRoom SpaceType = "room"
)

// SpaceStatus is the operational state maintained by the admin tool.
type SpaceStatus string

const (
    SpaceAvailable   SpaceStatus = "available"
    SpaceMaintenance SpaceStatus = "maintenance"
    SpaceReserved    SpaceStatus = "reserved"
)

// UnknownLocation replaces an empty location at ingestion.
const UnknownLocation = "Unknown Location"

// Space is a bookable physical resource (a desk or a room).  Spaces are
// shared reference data: this service reads them and never edits them,
// apart from the lock_version bump used to serialize booking writers.
//
// Fields:
//  ID          – primary key (UUID).
//  SpaceType   – desk or room.
//  Location    – free-text site or floor grouping.
//  Places      – optional secondary grouping (e.g. a city).
//  Capacity    – number of people, always >= 1 after ingestion.
//  Features    – amenity tags such as "window" or "whiteboard".
//  Equipment   – device tags such as "monitor".
//  IsBookable  – admin switch; together with Status decides Offerable.
//  UsageScore  – display-only telemetry.
//  LastUsedAt  – display-only telemetry.
type Space struct {
    ID         string      `json:"id"`           // spaces.id
    Name       string      `json:"name"`         // spaces.name
    SpaceType  SpaceType   `json:"space_type"`   // spaces.space_type
    Location   string      `json:"location"`     // spaces.location
    Places     string      `json:"places"`       // spaces.places (nullable)
    Capacity   int         `json:"capacity"`     // spaces.capacity
    Features   []string    `json:"features"`     // spaces.features (JSON array)
    Equipment  []string    `json:"equipment"`    // spaces.equipment (JSON array)
    IsPrivate  bool        `json:"is_private"`   // spaces.is_private
    IsBookable bool        `json:"is_bookable"`  // spaces.is_bookable
    Status     SpaceStatus `json:"status"`       // spaces.status
    UsageScore float64     `json:"usage_score"`  // spaces.usage_score
    LastUsedAt *time.Time  `json:"last_used_at"` // spaces.last_used_at (nullable)
}

// Offerable reports whether the space may receive new bookings.
func (s Space) Offerable() bool {
    return s.IsBookable && s.Status == SpaceAvailable
}

// SpaceRecord is the untrusted row shape as read from storage.  Features and
// Equipment hold the raw JSON text of the columns.
type SpaceRecord struct {
    ID         string
    Name       string
    SpaceType  string
    Location   string
    Places     string
    Capacity   int
    Features   []byte
    Equipment  []byte
    IsPrivate  bool
    IsBookable bool
    Status     string
    UsageScore float64
    LastUsedAt *time.Time
}

// SpaceFromRecord maps a storage row to a Space, defaulting malformed
// fields instead of trusting them.
func SpaceFromRecord(r SpaceRecord) Space {
    s := Space{
        ID:         r.ID,
        Name:       strings.TrimSpace(r.Name),
        SpaceType:  ParseSpaceType(r.SpaceType),
        Location:   strings.TrimSpace(r.Location),
        Places:     strings.TrimSpace(r.Places),
        Capacity:   r.Capacity,
        Features:   DecodeStringSet(r.Features),
        Equipment:  DecodeStringSet(r.Equipment),
        IsPrivate:  r.IsPrivate,
        IsBookable: r.IsBookable,
        Status:     ParseSpaceStatus(r.Status),
        UsageScore: r.UsageScore,
        LastUsedAt: r.LastUsedAt,
    }
    if s.Location == "" {
        s.Location = UnknownLocation
    }
    if s.Capacity < 1 {
        s.Capacity = 1
    }
    return s
}

// ParseSpaceType falls back to desk for anything unrecognised.
func ParseSpaceType(v string) SpaceType {
    switch SpaceType(strings.ToLower(strings.TrimSpace(v))) {
    case SpaceRoom:
        return SpaceRoom
    default:
        return SpaceDesk
    }
}

// ValidSpaceType reports whether v names a known type exactly.
func ValidSpaceType(v string) bool {
    return v == string(SpaceDesk) || v == string(SpaceRoom)
}

// ParseSpaceStatus falls back to available for anything unrecognised.
func ParseSpaceStatus(v string) SpaceStatus {
    switch st := SpaceStatus(strings.ToLower(strings.TrimSpace(v))); st {
    case SpaceMaintenance, SpaceReserved:
        return st
    default:
        return SpaceAvailable
    }
}

// DecodeStringSet parses a JSON array of strings.  Empty, null or malformed
// input yields an empty, non-nil slice; blank and duplicate entries are
// dropped.
func DecodeStringSet(raw []byte) []string {
    out := []string{}
    if len(raw) == 0 {
        return out
    }
    var items []string
    if err := json.Unmarshal(raw, &items); err != nil {
        return out
    }
    seen := make(map[string]struct{}, len(items))
    for _, it := range items {
        it = strings.TrimSpace(it)
        if it == "" {
            continue
        }
        if _, dup := seen[it]; dup {
            continue
        }
        seen[it] = struct{}{}
        out = append(out, it)
    }
    return out
}

// SpaceFilterParams names the query parameters the space listing reads, in
// a fixed order.  SpaceFilterLists are the comma-separated ones.
var (
    SpaceFilterParams = []string{"bookable", "equipment", "features", "is_private", "location", "min_capacity", "search", "status", "type"}
    SpaceFilterLists  = map[string]bool{"equipment": true, "features": true}
)

// SplitList splits a comma-separated parameter, trimming items and dropping
// empty ones.
func SplitList(raw string) []string {
    var out []string
    for _, p := range strings.Split(raw, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}

// SpaceFilter carries the catalog query parameters.  Zero values mean
// "no constraint".  Features and Equipment use AND semantics; Search is a
// case-insensitive substring match over name, location, features and
// equipment with OR semantics.
type SpaceFilter struct {
    Type         SpaceType
    Location     string
    MinCapacity  int
    Features     []string
    Equipment    []string
    IsPrivate    *bool
    BookableOnly bool
    Status       SpaceStatus
    Search       string
}

// Matches applies every filter to s.  The repository pushes only the
// boolean flags into SQL; everything else is decided here.
func (f SpaceFilter) Matches(s Space) bool {
    if f.Type != "" && s.SpaceType != f.Type {
        return false
    }
    if f.Location != "" && !containsFold(s.Location, f.Location) {
        return false
    }
    if f.MinCapacity > 0 && s.Capacity < f.MinCapacity {
        return false
    }
    if !hasAll(s.Features, f.Features) || !hasAll(s.Equipment, f.Equipment) {
        return false
    }
    if f.IsPrivate != nil && s.IsPrivate != *f.IsPrivate {
        return false
    }
    if f.BookableOnly && !s.IsBookable {
        return false
    }
    if f.Status != "" && s.Status != f.Status {
        return false
    }
    if q := strings.TrimSpace(f.Search); q != "" {
        if !containsFold(s.Name, q) && !containsFold(s.Location, q) &&
            !anyContainsFold(s.Features, q) && !anyContainsFold(s.Equipment, q) {
            return false
        }
    }
    return true
}

func containsFold(s, sub string) bool {
    return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(items []string, sub string) bool {
    for _, it := range items {
        if containsFold(it, sub) {
            return true
        }
    }
    return false
}

func hasAll(have, want []string) bool {
    if len(want) == 0 {
        return true
    }
    set := make(map[string]struct{}, len(have))
    for _, h := range have {
        set[h] = struct{}{}
    }
    for _, w := range want {
        if _, ok := set[w]; !ok {
            return false
        }
    }
    return true
}
