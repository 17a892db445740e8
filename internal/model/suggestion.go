package model

import "time"

// Suggestion outcomes.
const (
	SuggestionPending   = "pending"
	SuggestionAccepted  = "accepted"
	SuggestionDismissed = "dismissed"
)

// Values stamped on suggestions issued by the assistant.
const (
	SuggestionTypeBookNow = "book-now"
	OriginAssistant       = "ai-assistant"
	DeliveredViaCoach     = "AI Coach"
)

// Suggestion is one entry of the append-only recommendation log.  Nothing
// reads it back to change behaviour.
type Suggestion struct {
	ID               string     // suggestions.id
	UserID           string     // suggestions.user_id
	SpaceID          *string    // suggestions.space_id (nullable)
	RelatedBookingID *string    // suggestions.related_booking_id (nullable)
	SuggestionType   string     // suggestions.suggestion_type
	Message          string     // suggestions.message
	Origin           string     // suggestions.origin
	Status           string     // suggestions.status
	DeliveredVia     string     // suggestions.delivered_via
	SuggestedTime    *time.Time // suggestions.suggested_time (nullable)
	ValidUntil       *time.Time // suggestions.valid_until (nullable)
	CreatedAt        time.Time  // suggestions.created_at
}
