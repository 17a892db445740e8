package model

import "time"

// Audit action types written by the booking service.
const (
	AuditBookingCreated   = "booking.created"
	AuditBookingCancelled = "booking.cancelled"
)

// AuditEntry is an append-only record of a state change.
type AuditEntry struct {
	ID          string
	ActionType  string
	ActorType   string // "user" or "system"
	PerformedBy string
	TargetType  string
	TargetID    string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}
