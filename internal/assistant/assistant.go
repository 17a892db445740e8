package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/service"
)

// Working day offered when a message names no times.
const (
	DayStart = "09:00"
	DayEnd   = "18:00"
)

// Same bounds in minutes after midnight.
const (
	openMinute  = 9 * 60
	closeMinute = 18 * 60
)

const maxListed = 6

const (
	textSignIn   = "Please sign in so I can look up and book workspaces for you."
	textError    = "I encountered an error. Please try again, or browse the spaces page directly."
	textNeedTime = "I need specific times to help you book. Try something like \"Book a desk from 9am to 5pm\"."
	textBadOrder = "The end time needs to be after the start time. Try something like \"Book a room from 1pm to 3pm\"."
	textPassed   = "%s has already passed today. Pick a later start time, or ask what's available."
	textWhere    = "Which location would you like to book in? Try \"Book a desk in Downtown\"."
	textBooking  = "I can book a desk or a room for you. Tell me where (\"Book a desk in Downtown\") or when (\"Book a room from 2pm to 4pm\")."
	textGeneral  = "I can help you find available spaces, book a desk or room, and review your upcoming bookings. Try \"What rooms are available?\""
)

// Catalog is the read side the assistant searches.
type Catalog interface {
	AvailableForSlot(ctx context.Context, slot model.Slot) ([]model.Space, error)
	Get(ctx context.Context, id string) (model.Space, error)
	SiteInfo(ctx context.Context) (service.SiteInfo, error)
}

// Bookings is the booking writer and reader the assistant acts through.
type Bookings interface {
	Now() time.Time
	Location() *time.Location
	Overview(ctx context.Context, sess *model.Session) (upcoming, past []model.Booking, err error)
	CreateFromAssistant(ctx context.Context, sess *model.Session, req model.BookingRequest) (service.CreateResult, error)
}

// SuggestionLog records suggestions the user turned down.
type SuggestionLog interface {
	Append(ctx context.Context, s model.Suggestion) error
}

// Proposal is the slot a reply's spaces were checked against.
type Proposal struct {
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Reply is the assistant's answer to one message.
type Reply struct {
	Intent   Intent        `json:"intent"`
	Text     string        `json:"text"`
	Spaces   []model.Space `json:"spaces,omitempty"`
	Bookings []BookingLine `json:"bookings,omitempty"`
	Proposal *Proposal     `json:"proposal,omitempty"`
}

// BookingLine is one upcoming booking as shown in a reply.
type BookingLine struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	SpaceName string    `json:"space_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// BookRequest accepts a suggested space.  Empty date and times fall back
// to the slot the assistant would propose right now.
type BookRequest struct {
	SpaceID     string `json:"space_id"`
	BookingDate string `json:"booking_date,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// DismissRequest declines a suggestion.
type DismissRequest struct {
	SpaceID string `json:"space_id,omitempty" validate:"omitempty,uuid"`
	Message string `json:"message" validate:"required,max=2000"`
}

type handlerFunc func(ctx context.Context, sess *model.Session, text string) (Reply, error)

// Assistant routes messages through a dispatch table keyed by intent.
type Assistant struct {
	catalog     Catalog
	bookings    Bookings
	suggestions SuggestionLog
	handlers    map[Intent]handlerFunc

	newID func() string
}

func New(catalog Catalog, bookings Bookings, suggestions SuggestionLog) *Assistant {
	if catalog == nil || bookings == nil || suggestions == nil {
		panic("nil dependency passed to assistant.New")
	}
	a := &Assistant{
		catalog:     catalog,
		bookings:    bookings,
		suggestions: suggestions,
		newID:       uuid.NewString,
	}
	a.handlers = map[Intent]handlerFunc{
		IntentBookLocation:   a.bookLocation,
		IntentAvailableRooms: a.availableRooms,
		IntentBookTime:       a.bookTime,
		IntentMyBookings:     a.myBookings,
		IntentBooking:        a.booking,
		IntentInformation:    a.information,
		IntentGeneral:        a.general,
	}
	return a
}

// Respond classifies text and runs the matching handler.  Storage failures
// are logged and answered with a generic apology; the returned error is
// reserved for unusable input.
func (a *Assistant) Respond(ctx context.Context, sess *model.Session, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, &service.ValidationError{Fields: map[string]string{"text": "is required"}}
	}
	intent := ClassifyIntent(text)
	reply, err := a.handlers[intent](ctx, sess, text)
	if err != nil {
		log.Error().Err(err).Str("intent", string(intent)).Msg("assistant handler failed")
		return Reply{Intent: intent, Text: textError}, nil
	}
	reply.Intent = intent
	return reply, nil
}

// Book creates a booking for a suggested space through the regular
// booking path, tagged with the assistant source.
func (a *Assistant) Book(ctx context.Context, sess *model.Session, req BookRequest) (service.CreateResult, error) {
	w := a.defaultWindow()
	date := req.BookingDate
	if date == "" {
		date = w.BookingDate
	}
	start, end := DayStart, DayEnd
	if date == w.BookingDate {
		start, end = w.StartTime, w.EndTime
	}
	if req.StartTime != "" {
		start = req.StartTime
	}
	if req.EndTime != "" {
		end = req.EndTime
	}
	purpose := req.Purpose
	if strings.TrimSpace(purpose) == "" {
		purpose = "AI Assistant booking"
	}
	return a.bookings.CreateFromAssistant(ctx, sess, model.BookingRequest{
		SpaceID:     req.SpaceID,
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		Purpose:     purpose,
		Notes:       req.Notes,
	})
}

// Dismiss appends a dismissed suggestion to the log.
func (a *Assistant) Dismiss(ctx context.Context, sess *model.Session, req DismissRequest) error {
	if !sess.Authenticated() {
		return &service.AuthError{Reason: "no active session"}
	}
	if err := service.Validate(req); err != nil {
		return err
	}
	sg := model.Suggestion{
		ID:             a.newID(),
		UserID:         sess.UserID,
		SuggestionType: model.SuggestionTypeBookNow,
		Message:        strings.TrimSpace(req.Message),
		Origin:         model.OriginAssistant,
		Status:         model.SuggestionDismissed,
		DeliveredVia:   model.DeliveredViaCoach,
		CreatedAt:      a.bookings.Now(),
	}
	if req.SpaceID != "" {
		id := req.SpaceID
		sg.SpaceID = &id
	}
	if err := a.suggestions.Append(ctx, sg); err != nil {
		return &service.StorageError{Op: "append suggestion", Err: err}
	}
	return nil
}

var errSlotPassed = errors.New("slot starts in the past")

// dayWindow is a proposal plus the word used for its day in replies.
type dayWindow struct {
	Proposal
	day string
}

// defaultWindow is the rest of today's working day from the next half
// hour, or tomorrow's working day once today's has run out.
func (a *Assistant) defaultWindow() dayWindow {
	now := a.bookings.Now().In(a.bookings.Location())
	mins := now.Hour()*60 + now.Minute()
	if mins%30 != 0 || now.Second() != 0 || now.Nanosecond() != 0 {
		mins = (mins/30 + 1) * 30
	}
	if mins < openMinute {
		mins = openMinute
	}
	if mins >= closeMinute {
		return dayWindow{
			Proposal: Proposal{BookingDate: now.AddDate(0, 0, 1).Format(model.DateLayout), StartTime: DayStart, EndTime: DayEnd},
			day:      "tomorrow",
		}
	}
	return dayWindow{
		Proposal: Proposal{BookingDate: now.Format(model.DateLayout), StartTime: fmt.Sprintf("%02d:%02d", mins/60, mins%60), EndTime: DayEnd},
		day:      "today",
	}
}

func (a *Assistant) today() string {
	return a.bookings.Now().In(a.bookings.Location()).Format(model.DateLayout)
}

// available lists the spaces free for p.  A slot that has already started
// yields errSlotPassed.
func (a *Assistant) available(ctx context.Context, p Proposal) ([]model.Space, error) {
	slot, err := model.NewSlot(p.BookingDate, p.StartTime, p.EndTime, a.bookings.Location())
	if err != nil {
		return nil, err
	}
	if slot.Start.Before(a.bookings.Now()) {
		return nil, errSlotPassed
	}
	return a.catalog.AvailableForSlot(ctx, slot)
}

func (a *Assistant) bookLocation(ctx context.Context, sess *model.Session, text string) (Reply, error) {
	if !sess.Authenticated() {
		return Reply{Text: textSignIn}, nil
	}
	where := ExtractLocation(text)
	if where == "" {
		return Reply{Text: textWhere}, nil
	}
	w := a.defaultWindow()
	spaces, err := a.available(ctx, w.Proposal)
	if err != nil {
		return Reply{}, err
	}
	var matched []model.Space
	for _, sp := range spaces {
		if containsFold(sp.Location, where) || containsFold(sp.Places, where) || containsFold(sp.Name, where) {
			matched = append(matched, sp)
		}
	}
	if len(matched) == 0 {
		return Reply{Text: fmt.Sprintf("I couldn't find any available coworking spaces in %s for %s. Try another location or ask what's available.", where, w.day)}, nil
	}
	matched = top(matched)
	var b strings.Builder
	fmt.Fprintf(&b, "Great! I found %d available coworking space%s in %s:\n", len(matched), plural(len(matched)), where)
	writeSpaces(&b, matched)
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Spaces: matched, Proposal: &w.Proposal}, nil
}

func (a *Assistant) availableRooms(ctx context.Context, _ *model.Session, _ string) (Reply, error) {
	w := a.defaultWindow()
	spaces, err := a.available(ctx, w.Proposal)
	if err != nil {
		return Reply{}, err
	}
	if len(spaces) == 0 {
		return Reply{Text: fmt.Sprintf("Everything is booked for %s. Try asking about a specific time.", w.day)}, nil
	}
	var rooms, desks int
	for _, sp := range spaces {
		if sp.SpaceType == model.SpaceRoom {
			rooms++
		} else {
			desks++
		}
	}
	listed := top(spaces)
	var b strings.Builder
	fmt.Fprintf(&b, "%s there are %d room%s and %d desk%s available from %s to %s. Here are some options:\n",
		strings.ToUpper(w.day[:1])+w.day[1:], rooms, plural(rooms), desks, plural(desks), w.StartTime, w.EndTime)
	writeSpaces(&b, listed)
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Spaces: listed, Proposal: &w.Proposal}, nil
}

func (a *Assistant) bookTime(ctx context.Context, sess *model.Session, text string) (Reply, error) {
	if !sess.Authenticated() {
		return Reply{Text: textSignIn}, nil
	}
	times := ExtractTimes(text)
	if len(times) < 2 {
		return Reply{Text: textNeedTime}, nil
	}
	start, end := times[0], times[1]
	if start >= end {
		return Reply{Text: textBadOrder}, nil
	}
	p := Proposal{BookingDate: a.today(), StartTime: start, EndTime: end}
	spaces, err := a.available(ctx, p)
	if errors.Is(err, errSlotPassed) {
		return Reply{Text: fmt.Sprintf(textPassed, start)}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	if len(spaces) == 0 {
		return Reply{Text: fmt.Sprintf("Nothing is free today from %s to %s. Try a different time.", start, end)}, nil
	}
	listed := top(spaces)
	var b strings.Builder
	fmt.Fprintf(&b, "These spaces are free today from %s to %s:\n", start, end)
	writeSpaces(&b, listed)
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Spaces: listed, Proposal: &p}, nil
}

func (a *Assistant) myBookings(ctx context.Context, sess *model.Session, _ string) (Reply, error) {
	if !sess.Authenticated() {
		return Reply{Text: textSignIn}, nil
	}
	upcoming, _, err := a.bookings.Overview(ctx, sess)
	if err != nil {
		return Reply{}, err
	}
	if len(upcoming) == 0 {
		return Reply{Text: "You don't have any upcoming bookings yet. Would you like me to find a space?"}, nil
	}

	loc := a.bookings.Location()
	names := map[string]string{}
	lines := make([]BookingLine, 0, len(upcoming))
	var b strings.Builder
	b.WriteString("Here are your upcoming bookings:\n")
	for _, bk := range upcoming {
		name, ok := names[bk.SpaceID]
		if !ok {
			name = "Unknown space"
			if sp, err := a.catalog.Get(ctx, bk.SpaceID); err == nil {
				name = sp.Name
			}
			names[bk.SpaceID] = name
		}
		lines = append(lines, BookingLine{ID: bk.ID, SpaceID: bk.SpaceID, SpaceName: name, StartTime: bk.StartTime, EndTime: bk.EndTime})
		fmt.Fprintf(&b, "- %s on %s, %s to %s\n", name,
			bk.StartTime.In(loc).Format("Mon Jan 2"),
			bk.StartTime.In(loc).Format(model.ClockLayout),
			bk.EndTime.In(loc).Format(model.ClockLayout))
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Bookings: lines}, nil
}

func (a *Assistant) booking(context.Context, *model.Session, string) (Reply, error) {
	return Reply{Text: textBooking}, nil
}

func (a *Assistant) information(ctx context.Context, _ *model.Session, _ string) (Reply, error) {
	info, err := a.catalog.SiteInfo(ctx)
	if err != nil {
		return Reply{}, err
	}
	locations := "no locations yet"
	if len(info.Locations) > 0 {
		locations = strings.Join(info.Locations, ", ")
	}
	return Reply{Text: fmt.Sprintf(
		"We have %d bookable space%s across %s, with %d confirmed booking%s so far. Ask me what's available or tell me when you'd like to work.",
		info.BookableSpaces, plural(info.BookableSpaces), locations, info.ConfirmedBookings, plural(info.ConfirmedBookings),
	)}, nil
}

func (a *Assistant) general(context.Context, *model.Session, string) (Reply, error) {
	return Reply{Text: textGeneral}, nil
}

func writeSpaces(b *strings.Builder, spaces []model.Space) {
	for _, sp := range spaces {
		fmt.Fprintf(b, "- %s (%s, %d %s) in %s\n", sp.Name, sp.SpaceType, sp.Capacity, people(sp.Capacity), sp.Location)
	}
}

func top(spaces []model.Space) []model.Space {
	if len(spaces) > maxListed {
		return spaces[:maxListed]
	}
	return spaces
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func people(n int) string {
	if n == 1 {
		return "person"
	}
	return "people"
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
