package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mailer delivers a confirmation and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, c Confirmation) (string, error)
}

// LogMailer writes the confirmation to the log instead of delivering it.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, c Confirmation) (string, error) {
	id := uuid.NewString()
	log.Info().
		Str("email_id", id).
		Str("booking_id", c.BookingID).
		Str("from", c.From).
		Str("to", c.To).
		Str("subject", c.Subject).
		Str("time", c.StartTime+" - "+c.EndTime).
		Msg("booking confirmation")
	return id, nil
}
