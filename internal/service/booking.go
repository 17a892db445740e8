package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

// Notifier delivers the confirmation for a committed booking.  Create calls
// it at most once per booking and never retries.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b model.Booking) error
}

// CreateResult is the outcome of a successful Create.  NotificationWarning
// is set when the booking was stored but its confirmation could not be
// dispatched.
type CreateResult struct {
	Booking             model.Booking
	NotificationWarning *NotificationError
}

// BookingService creates, lists and cancels bookings on behalf of a
// session user.
type BookingService struct {
	spaces      *repository.SpaceRepo
	bookings    *repository.BookingRepo
	suggestions *repository.SuggestionRepo
	audit       *repository.AuditRepo
	checker     *AvailabilityChecker
	notifier    Notifier

	now   func() time.Time
	newID func() string
}

// NewBookingService wires the booking writer.  notifier may be nil, in
// which case no confirmation is attempted.
func NewBookingService(spaces *repository.SpaceRepo, bookings *repository.BookingRepo, suggestions *repository.SuggestionRepo,
	audit *repository.AuditRepo, checker *AvailabilityChecker, notifier Notifier) *BookingService {
	if spaces == nil || bookings == nil || suggestions == nil || audit == nil || checker == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		spaces:      spaces,
		bookings:    bookings,
		suggestions: suggestions,
		audit:       audit,
		checker:     checker,
		notifier:    notifier,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// WithClock replaces the clock used for validation, classification and
// timestamps.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Now returns the service clock.
func (s *BookingService) Now() time.Time { return s.now() }

// Location is the booking time zone.
func (s *BookingService) Location() *time.Location { return s.checker.Location() }

// Create books a slot from the web client.
func (s *BookingService) Create(ctx context.Context, sess *model.Session, req model.BookingRequest) (CreateResult, error) {
	return s.create(ctx, sess, req, model.SourceWeb)
}

// CreateFromAssistant books a slot accepted from an assistant suggestion.
// It also appends the accepted suggestion to the log.
func (s *BookingService) CreateFromAssistant(ctx context.Context, sess *model.Session, req model.BookingRequest) (CreateResult, error) {
	return s.create(ctx, sess, req, model.SourceAssistant)
}

func (s *BookingService) create(ctx context.Context, sess *model.Session, req model.BookingRequest, source string) (CreateResult, error) {
	if err := requireSession(sess); err != nil {
		return CreateResult{}, err
	}
	slot, err := s.validateRequest(req)
	if err != nil {
		return CreateResult{}, err
	}

	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		return CreateResult{}, storageErr("load space", err)
	}
	if !space.Offerable() {
		return CreateResult{}, &ConflictError{Reason: "space is not available for booking"}
	}

	now := s.now().UTC()
	b := model.Booking{
		ID:          s.newID(),
		UserID:      sess.UserID,
		SpaceID:     space.ID,
		BookingDate: slot.Date,
		StartTime:   slot.Start.UTC(),
		EndTime:     slot.End.UTC(),
		FullName:    sess.Profile.FullName,
		Email:       sess.Profile.Email,
		Phone:       sess.Profile.Phone,
		Role:        sess.Profile.Role,
		SpaceType:   firstNonEmpty(req.SpaceType, string(space.SpaceType)),
		Location:    firstNonEmpty(req.Location, space.Location),
		Purpose:     strings.TrimSpace(req.Purpose),
		Notes:       strings.TrimSpace(req.Notes),
		Status:      model.BookingConfirmed,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.insert(ctx, b, slot); err != nil {
		return CreateResult{}, err
	}
	log.Info().Str("booking_id", b.ID).Str("space_id", b.SpaceID).Str("user_id", b.UserID).
		Str("date", b.BookingDate).Str("source", source).Msg("booking created")

	s.recordAudit(ctx, model.AuditBookingCreated, sess.UserID, b, fmt.Sprintf("Booked %s on %s", space.Name, b.BookingDate))
	if source == model.SourceAssistant {
		s.recordAcceptedSuggestion(ctx, b, space)
	}

	res := CreateResult{Booking: b}
	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, b); err != nil {
			res.NotificationWarning = &NotificationError{BookingID: b.ID, Err: err}
			log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking confirmation not sent")
		}
	}
	return res, nil
}

// insert runs lock, re-check and insert in one transaction.  The space row
// lock makes concurrent writers for the same space take turns, so the
// availability answer cannot change between the check and the insert.
func (s *BookingService) insert(ctx context.Context, b model.Booking, slot model.Slot) error {
	tx, err := s.bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "begin booking", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.spaces.LockTx(ctx, tx, b.SpaceID); err != nil {
		return storageErr("lock space", err)
	}
	ok, err := s.checker.IsAvailableTx(ctx, tx, b.SpaceID, slot)
	if err != nil {
		return err
	}
	if !ok {
		return &ConflictError{Reason: "time slot is already booked"}
	}
	if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return &ConflictError{Reason: "booking already exists"}
		}
		return &StorageError{Op: "insert booking", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit booking", Err: err}
	}
	committed = true
	return nil
}

// validateRequest checks shape with the struct tags, then the rules that
// need the clock.  No storage is touched.
func (s *BookingService) validateRequest(req model.BookingRequest) (model.Slot, error) {
	if err := Validate(req); err != nil {
		return model.Slot{}, err
	}
	slot, err := s.checker.Slot(req.BookingDate, req.StartTime, req.EndTime)
	if err != nil {
		return model.Slot{}, err
	}
	if !slot.Valid() {
		return model.Slot{}, invalid("end_time", "must be after start_time")
	}
	if slot.Start.Before(s.now()) {
		return model.Slot{}, invalid("start_time", "must not be in the past")
	}
	return slot, nil
}

// List returns the session user's bookings ordered by start time.
func (s *BookingService) List(ctx context.Context, sess *model.Session) ([]model.Booking, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	out, err := s.bookings.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, &StorageError{Op: "list bookings", Err: err}
	}
	return out, nil
}

// Overview lists the user's bookings split into upcoming and past using the
// service clock.
func (s *BookingService) Overview(ctx context.Context, sess *model.Session) (upcoming, past []model.Booking, err error) {
	all, err := s.List(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	upcoming, past = model.Partition(all, s.now())
	return upcoming, past, nil
}

// Get returns one booking owned by the session user.
func (s *BookingService) Get(ctx context.Context, sess *model.Session, id string) (model.Booking, error) {
	if err := requireSession(sess); err != nil {
		return model.Booking{}, err
	}
	b, err := s.bookings.GetForUser(ctx, id, sess.UserID)
	if err != nil {
		return model.Booking{}, storageErr("get booking", err)
	}
	return b, nil
}

// Cancel moves an owned booking to cancelled.  Cancelling twice succeeds.
func (s *BookingService) Cancel(ctx context.Context, sess *model.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	changed, err := s.bookings.CancelForUser(ctx, id, sess.UserID, s.now())
	if err != nil {
		return storageErr("cancel booking", err)
	}
	if !changed {
		return nil
	}
	log.Info().Str("booking_id", id).Str("user_id", sess.UserID).Msg("booking cancelled")
	if b, err := s.bookings.GetByID(ctx, id); err == nil {
		s.recordAudit(ctx, model.AuditBookingCancelled, sess.UserID, b, "Booking cancelled by owner")
	}
	return nil
}

func (s *BookingService) recordAudit(ctx context.Context, action, actor string, b model.Booking, desc string) {
	entry := model.AuditEntry{
		ID:          s.newID(),
		ActionType:  action,
		ActorType:   "user",
		PerformedBy: actor,
		TargetType:  "booking",
		TargetID:    b.ID,
		Description: desc,
		Metadata: map[string]any{
			"space_id":     b.SpaceID,
			"booking_date": b.BookingDate,
			"start_time":   b.StartTime.Format(time.RFC3339),
			"end_time":     b.EndTime.Format(time.RFC3339),
			"source":       b.Source,
		},
		CreatedAt: s.now(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID).Str("action", action).Msg("audit append failed")
	}
}

func (s *BookingService) recordAcceptedSuggestion(ctx context.Context, b model.Booking, space model.Space) {
	spaceID, bookingID := b.SpaceID, b.ID
	start := b.StartTime
	sg := model.Suggestion{
		ID:               s.newID(),
		UserID:           b.UserID,
		SpaceID:          &spaceID,
		RelatedBookingID: &bookingID,
		SuggestionType:   model.SuggestionTypeBookNow,
		Message:          fmt.Sprintf("Booked %s via AI Assistant", space.Name),
		Origin:           model.OriginAssistant,
		Status:           model.SuggestionAccepted,
		DeliveredVia:     model.DeliveredViaCoach,
		SuggestedTime:    &start,
		CreatedAt:        s.now(),
	}
	if err := s.suggestions.Append(ctx, sg); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID).Msg("suggestion append failed")
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
