// Package notify sends booking confirmations.  The API server hands a
// committed booking to a Dispatcher or the queue publisher; the notifier
// process looks the booking up again and passes a Confirmation to a Mailer.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/workspace-booking/internal/repository"
)

const (
	// DefaultFrom is the sender used when NOTIFIER_MAIL_FROM is unset.
	DefaultFrom = "SPARC Workspace <onboarding@resend.dev>"

	longDateLayout = "Monday, January 2, 2006"
	clockLayout12  = "3:04 PM"
)

// Confirmation is the content of one confirmation message.  Rendering it
// into HTML is left to the Mailer.
type Confirmation struct {
	BookingID     string
	From          string
	To            string
	RecipientName string
	Subject       string
	SpaceName     string
	Location      string
	SpaceType     string
	Date          string
	StartTime     string
	EndTime       string
	Purpose       string
}

// BuildConfirmation formats d for display in loc.
func BuildConfirmation(d repository.BookingDetail, from string, loc *time.Location) Confirmation {
	if loc == nil {
		loc = time.UTC
	}
	if strings.TrimSpace(from) == "" {
		from = DefaultFrom
	}
	b := d.Booking
	date := b.StartTime.In(loc).Format(longDateLayout)
	if day, err := time.ParseInLocation("2006-01-02", b.BookingDate, loc); err == nil {
		date = day.Format(longDateLayout)
	}
	return Confirmation{
		BookingID:     b.ID,
		From:          from,
		To:            b.Email,
		RecipientName: b.FullName,
		Subject:       fmt.Sprintf("Booking Confirmed: %s on %s", d.SpaceName, date),
		SpaceName:     d.SpaceName,
		Location:      d.SpaceLocation,
		SpaceType:     d.SpaceType,
		Date:          date,
		StartTime:     b.StartTime.In(loc).Format(clockLayout12),
		EndTime:       b.EndTime.In(loc).Format(clockLayout12),
		Purpose:       b.Purpose,
	}
}
