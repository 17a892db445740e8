package model

import (
	"sort"
	"time"
)

// BookingStatus is the lifecycle state of a booking.  Writes always create
// confirmed bookings; "active" may be set by external check-in tooling and
// still blocks the slot.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking sources.
const (
	SourceWeb       = "web"
	SourceAssistant = "AI Assistant"
)

// Booking is a reservation of a space for one interval by one user.  The
// contact fields are a snapshot of the requester's profile taken at
// creation time and are not kept in sync with later profile edits.
type Booking struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	SpaceID        string        `json:"space_id"`
	BookingDate    string        `json:"booking_date"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	FullName       string        `json:"full_name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone,omitempty"`
	Role           string        `json:"role"`
	SpaceType      string        `json:"space_type,omitempty"`
	Location       string        `json:"location,omitempty"`
	Purpose        string        `json:"purpose,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Status         BookingStatus `json:"status"`
	CheckedIn      bool          `json:"checked_in"`
	NoShow         bool          `json:"no_show"`
	Overbooked     bool          `json:"overbooked"`
	WasRescheduled bool          `json:"was_rescheduled"`
	Source         string        `json:"source"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Slot returns the booked interval.
func (b Booking) Slot() Slot {
	return Slot{Date: b.BookingDate, Start: b.StartTime, End: b.EndTime}
}

// BookingRequest is the creation payload.  The validate tags cover shape;
// ordering and "not in the past" are checked by the booking service.
type BookingRequest struct {
	SpaceID     string `json:"space_id" validate:"required,uuid"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	SpaceType   string `json:"space_type,omitempty" validate:"omitempty,oneof=desk room"`
	Location    string `json:"location,omitempty" validate:"max=255"`
	Purpose     string `json:"purpose,omitempty" validate:"max=2000"`
	Notes       string `json:"notes,omitempty" validate:"max=2000"`
}

// Phase is the read-time classification of a booking.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhasePast     Phase = "past"
)

// Classify places b relative to now.  Only a confirmed booking that has not
// started yet is upcoming; everything else, including cancelled bookings
// with a future start, is past.  The result is never stored.
func Classify(b Booking, now time.Time) Phase {
	if b.Status == BookingConfirmed && b.StartTime.After(now) {
		return PhaseUpcoming
	}
	return PhasePast
}

// Partition splits bookings by Classify, keeping start-time order.
func Partition(bookings []Booking, now time.Time) (upcoming, past []Booking) {
	upcoming, past = []Booking{}, []Booking{}
	sorted := make([]Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })
	for _, b := range sorted {
		if Classify(b, now) == PhaseUpcoming {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past
}
