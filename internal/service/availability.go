package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

// AvailabilityChecker answers whether a slot on a space is free.  A slot is
// taken when a confirmed or active booking on the same space and date
// intersects it as a half-open interval, so back-to-back bookings are
// allowed.
type AvailabilityChecker struct {
	bookings *repository.BookingRepo
	loc      *time.Location
}

// NewAvailabilityChecker returns a checker interpreting wall-clock times in
// loc (UTC when nil).
func NewAvailabilityChecker(bookings *repository.BookingRepo, loc *time.Location) *AvailabilityChecker {
	if bookings == nil {
		panic("nil repository passed to NewAvailabilityChecker")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityChecker{bookings: bookings, loc: loc}
}

// Location is the zone wall-clock times are read in.
func (a *AvailabilityChecker) Location() *time.Location { return a.loc }

// Slot parses date and HH:MM times into a slot.  Ordering is not checked.
func (a *AvailabilityChecker) Slot(date, start, end string) (model.Slot, error) {
	slot, err := model.NewSlot(date, start, end, a.loc)
	if err != nil {
		var fe *model.FieldError
		if errors.As(err, &fe) {
			return model.Slot{}, invalid(fe.Field, fe.Message)
		}
		return model.Slot{}, invalid("booking_date", err.Error())
	}
	return slot, nil
}

// IsAvailable reports whether spaceID is free for [start, end) on date.
func (a *AvailabilityChecker) IsAvailable(ctx context.Context, spaceID, date, start, end string) (bool, error) {
	slot, err := a.Slot(date, start, end)
	if err != nil {
		return false, err
	}
	return a.IsSlotAvailable(ctx, spaceID, slot)
}

// IsSlotAvailable is IsAvailable for an already parsed slot.
func (a *AvailabilityChecker) IsSlotAvailable(ctx context.Context, spaceID string, slot model.Slot) (bool, error) {
	taken, err := a.bookings.HasOverlap(ctx, spaceID, slot)
	if err != nil {
		return false, &StorageError{Op: "check availability", Err: err}
	}
	return !taken, nil
}

// IsAvailableTx runs the same check inside tx so it observes the caller's
// locks.
func (a *AvailabilityChecker) IsAvailableTx(ctx context.Context, tx *sql.Tx, spaceID string, slot model.Slot) (bool, error) {
	taken, err := a.bookings.HasOverlapTx(ctx, tx, spaceID, slot)
	if err != nil {
		return false, &StorageError{Op: "check availability", Err: err}
	}
	return !taken, nil
}
