package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/repository"
)

// ErrBookingNotFound is returned by Sender.Send for an unknown booking id.
var ErrBookingNotFound = repository.ErrBookingNotFound

// SendError wraps a lookup or delivery failure other than a missing
// booking.
type SendError struct {
	BookingID string
	Err       error
}

func (e *SendError) Error() string { return "send confirmation " + e.BookingID + ": " + e.Err.Error() }

func (e *SendError) Unwrap() error { return e.Err }

// Sender looks a booking up and mails its confirmation.
type Sender struct {
	bookings *repository.BookingRepo
	mailer   Mailer
	from     string
	loc      *time.Location
}

func NewSender(bookings *repository.BookingRepo, mailer Mailer, from string, loc *time.Location) *Sender {
	if bookings == nil || mailer == nil {
		panic("nil dependency passed to NewSender")
	}
	return &Sender{bookings: bookings, mailer: mailer, from: from, loc: loc}
}

// Send returns the email id on success, ErrBookingNotFound when the booking
// or its space is missing, and *SendError otherwise.
func (s *Sender) Send(ctx context.Context, bookingID string) (string, error) {
	d, err := s.bookings.GetDetail(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		log.Warn().Str("booking_id", bookingID).Msg("confirmation requested for unknown booking")
		return "", ErrBookingNotFound
	}
	if err != nil {
		return "", &SendError{BookingID: bookingID, Err: err}
	}
	id, err := s.mailer.Send(ctx, BuildConfirmation(d, s.from, s.loc))
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("error sending booking confirmation email")
		return "", &SendError{BookingID: bookingID, Err: err}
	}
	return id, nil
}
