package model

import "time"

// Weekdays accepted as keys of Preferences.PreferredHours.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// HourRange is a preferred working window on one weekday, "HH:MM" bounds.
type HourRange struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// Preferences is the per-user advisory settings row.  It only biases
// suggestion text and never affects availability.
type Preferences struct {
	UserID             string               `json:"user_id"`
	PreferredSpaceType *SpaceType           `json:"preferred_space_type" validate:"omitempty,oneof=desk room"`
	WorkStyle          *string              `json:"work_style" validate:"omitempty,max=64"`
	PreferredHours     map[string]HourRange `json:"preferred_hours" validate:"omitempty,dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys"`
	AIPersonaEnabled   bool                 `json:"ai_persona_enabled"`
	NotificationOptIn  bool                 `json:"notification_opt_in"`
	CreatedAt          *time.Time           `json:"created_at,omitempty"`
	UpdatedAt          *time.Time           `json:"updated_at,omitempty"`
}

// DefaultPreferences is what a user without a stored row sees.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:         userID,
		PreferredHours: map[string]HourRange{},
	}
}
