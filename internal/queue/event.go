// Package queue carries booking.confirmed events over RabbitMQ: the API
// server publishes one per committed booking and the notifier consumes
// them.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/workspace-booking/internal/model"
)

// DefaultQueue is the durable queue both sides declare.
const DefaultQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a booking is committed.  The
// consumer only needs BookingID; the rest is carried for log correlation.
type BookingConfirmedEvent struct {
    BookingID   string `json:"booking_id"`
    UserID      string `json:"user_id"`
    SpaceID     string `json:"space_id"`
    BookingDate string `json:"booking_date"`
    StartsAt    string `json:"starts_at"`
    EndsAt      string `json:"ends_at"`
    Source      string `json:"source"`
    ConfirmedAt string `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event for b.
func NewBookingConfirmedEvent(b model.Booking, now time.Time) BookingConfirmedEvent {
    return BookingConfirmedEvent{
        BookingID:   b.ID,
        UserID:      b.UserID,
        SpaceID:     b.SpaceID,
        BookingDate: b.BookingDate,
        StartsAt:    b.StartTime.UTC().Format(time.RFC3339),
        EndsAt:      b.EndTime.UTC().Format(time.RFC3339),
        Source:      b.Source,
        ConfirmedAt: now.UTC().Format(time.RFC3339),
    }
}

// DecodeBookingConfirmed parses a message body.  An event without a
// booking id is rejected.
func DecodeBookingConfirmed(body []byte) (BookingConfirmedEvent, error) {
    var ev BookingConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return ev, fmt.Errorf("unmarshal: %w", err)
    }
    if ev.BookingID == "" {
        return ev, errors.New("event has no booking_id")
    }
    return ev, nil
}
