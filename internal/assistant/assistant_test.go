package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/service"
	"github.com/iliyamo/workspace-booking/internal/testfixtures"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"Book a desk in Downtown", IntentBookLocation},
		{"can I book a coworking spot", IntentBookLocation},
		{"What rooms are available?", IntentAvailableRooms},
		{"any free spaces", IntentAvailableRooms},
		{"Book a desk from 9am to 5pm", IntentBookTime},
		{"book something at 3pm", IntentBookTime},
		{"show my bookings", IntentMyBookings},
		{"what did I do in the past", IntentMyBookings},
		{"I want to reserve a desk", IntentBooking},
		{"book it", IntentBooking},
		{"tell me about the facilities", IntentInformation},
		{"HELP", IntentInformation},
		{"hello there", IntentGeneral},
		{"", IntentGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyIntent(tc.text))
		})
	}
}

func TestExtractTimes(t *testing.T) {
	assert.Equal(t, []string{"09:00", "17:00"}, ExtractTimes("from 9am to 5pm"))
	assert.Equal(t, []string{"13:30", "15:45"}, ExtractTimes("1:30 PM until 3:45 pm"))
	assert.Equal(t, []string{"00:00", "12:00"}, ExtractTimes("12am and 12pm"))
	assert.Empty(t, ExtractTimes("at 14:00"))
	assert.Empty(t, ExtractTimes("13pm"))
}

func TestExtractLocation(t *testing.T) {
	assert.Equal(t, "Downtown", ExtractLocation("Book a desk in Downtown"))
	assert.Equal(t, "Harbour View", ExtractLocation("book a room at Harbour View, please"))
	assert.Equal(t, "Berlin", ExtractLocation("Book a coworking desk in Berlin today?"))
	assert.Equal(t, "", ExtractLocation("book a desk"))
}

type fixture struct {
	store    *testfixtures.Store
	clock    *testfixtures.Clock
	bookings *service.BookingService
	catalog  *service.CatalogService
	bot      *Assistant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := testfixtures.NewStore(t)
	clock := testfixtures.NewClock(time.Time{})
	checker := service.NewAvailabilityChecker(st.Bookings, time.UTC)
	bs := service.NewBookingService(st.Spaces, st.Bookings, st.Suggestions, st.Audit, checker, nil).WithClock(clock.NowFunc())
	cs := service.NewCatalogService(st.Spaces, st.Bookings, checker)
	return &fixture{store: st, clock: clock, bookings: bs, catalog: cs, bot: New(cs, bs, st.Suggestions)}
}

func TestRespondBookLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	busy := f.store.AddSpace(t, "Corner Desk", testfixtures.WithLocation("Downtown", "Lisbon"))
	f.store.AddSpace(t, "Window Desk", testfixtures.WithLocation("Downtown", "Lisbon"))
	f.store.AddSpace(t, "Quiet Desk", testfixtures.WithLocation("Uptown", "Lisbon"))
	f.store.AddBooking(t, alice, busy.ID, "2024-05-31", "10:00", "11:00", model.BookingConfirmed)

	reply, err := f.bot.Respond(ctx, &alice, "Book a desk in Downtown")
	require.NoError(t, err)

	assert.Equal(t, IntentBookLocation, reply.Intent)
	assert.True(t, strings.HasPrefix(reply.Text, "Great! I found 1 available coworking space in Downtown:"), reply.Text)
	require.Len(t, reply.Spaces, 1)
	assert.Equal(t, "Window Desk", reply.Spaces[0].Name)
	require.NotNil(t, reply.Proposal)
	assert.Equal(t, Proposal{BookingDate: "2024-05-31", StartTime: DayStart, EndTime: DayEnd}, *reply.Proposal)
}

func TestRespondBookLocationNoMatch(t *testing.T) {
	f := newFixture(t)
	alice := f.store.AddUser(t, "alice")
	f.store.AddSpace(t, "Quiet Desk", testfixtures.WithLocation("Uptown", ""))

	reply, err := f.bot.Respond(context.Background(), &alice, "book a desk in Atlantis")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "couldn't find any available coworking spaces in Atlantis")
	assert.Empty(t, reply.Spaces)
}

func TestRespondNeedsSessionForPersonalIntents(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"Book a desk in Downtown", "book from 9am to 5pm", "my bookings"} {
		reply, err := f.bot.Respond(context.Background(), nil, text)
		require.NoError(t, err)
		assert.Equal(t, textSignIn, reply.Text, text)
	}
}

func TestRespondAvailableRooms(t *testing.T) {
	f := newFixture(t)
	f.store.AddSpace(t, "Board Room", testfixtures.WithType(model.SpaceRoom), testfixtures.WithCapacity(8))
	f.store.AddSpace(t, "Desk A")
	f.store.AddSpace(t, "Desk B")
	f.store.AddSpace(t, "Closed Desk", testfixtures.NotBookable())

	reply, err := f.bot.Respond(context.Background(), nil, "What rooms are available?")
	require.NoError(t, err)
	assert.Equal(t, IntentAvailableRooms, reply.Intent)
	assert.Contains(t, reply.Text, "Today there are 1 room and 2 desks available from 09:00 to 18:00")
	assert.Contains(t, reply.Text, "- Board Room (room, 8 people) in Main Floor")
	assert.Len(t, reply.Spaces, 3)
}

func TestRespondAvailableRoomsCapsTheList(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		f.store.AddSpace(t, "Desk "+name)
	}
	reply, err := f.bot.Respond(context.Background(), nil, "available spaces")
	require.NoError(t, err)
	assert.Len(t, reply.Spaces, maxListed)
	assert.Contains(t, reply.Text, "8 desks")
}

func TestRespondBookTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	s1 := f.store.AddSpace(t, "S1")
	f.store.AddSpace(t, "S2")
	f.store.AddBooking(t, alice, s1.ID, "2024-05-31", "14:00", "15:00", model.BookingConfirmed)

	reply, err := f.bot.Respond(ctx, &alice, "book a desk")
	require.NoError(t, err)
	assert.Equal(t, IntentBooking, reply.Intent)

	reply, err = f.bot.Respond(ctx, &alice, "book a desk at 2pm")
	require.NoError(t, err)
	assert.Equal(t, textNeedTime, reply.Text)

	reply, err = f.bot.Respond(ctx, &alice, "book a desk from 5pm to 1pm")
	require.NoError(t, err)
	assert.Equal(t, textBadOrder, reply.Text)

	reply, err = f.bot.Respond(ctx, &alice, "book a desk from 1pm to 3pm")
	require.NoError(t, err)
	assert.Equal(t, IntentBookTime, reply.Intent)
	require.Len(t, reply.Spaces, 1)
	assert.Equal(t, "S2", reply.Spaces[0].Name)
	assert.Equal(t, &Proposal{BookingDate: "2024-05-31", StartTime: "13:00", EndTime: "15:00"}, reply.Proposal)

	// 3pm to 4pm touches the existing booking's end and is free.
	reply, err = f.bot.Respond(ctx, &alice, "book a desk from 3pm to 4pm")
	require.NoError(t, err)
	assert.Len(t, reply.Spaces, 2)
}

func TestRespondMyBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	bob := f.store.AddUser(t, "bob")
	s1 := f.store.AddSpace(t, "Corner Desk")

	reply, err := f.bot.Respond(ctx, &alice, "show my bookings")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "don't have any upcoming bookings")

	mine := f.store.AddBooking(t, alice, s1.ID, "2024-06-01", "09:00", "10:00", model.BookingConfirmed)
	f.store.AddBooking(t, alice, s1.ID, "2024-06-01", "11:00", "12:00", model.BookingCancelled)
	f.store.AddBooking(t, bob, s1.ID, "2024-06-01", "13:00", "14:00", model.BookingConfirmed)

	reply, err = f.bot.Respond(ctx, &alice, "show my bookings")
	require.NoError(t, err)
	assert.Equal(t, IntentMyBookings, reply.Intent)
	require.Len(t, reply.Bookings, 1)
	assert.Equal(t, mine.ID, reply.Bookings[0].ID)
	assert.Equal(t, "Corner Desk", reply.Bookings[0].SpaceName)
	assert.Contains(t, reply.Text, "- Corner Desk on Sat Jun 1, 09:00 to 10:00")
}

func TestRespondInformationAndGeneral(t *testing.T) {
	f := newFixture(t)
	f.store.AddSpace(t, "S1", testfixtures.WithLocation("Downtown", ""))

	reply, err := f.bot.Respond(context.Background(), nil, "tell me about the facilities")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "1 bookable space across Downtown")

	reply, err = f.bot.Respond(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, IntentGeneral, reply.Intent)
	assert.Equal(t, textGeneral, reply.Text)
}

func TestRespondRejectsEmptyText(t *testing.T) {
	f := newFixture(t)
	_, err := f.bot.Respond(context.Background(), nil, "   ")
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "text")
}

type brokenCatalog struct{}

func (brokenCatalog) AvailableForSlot(context.Context, model.Slot) ([]model.Space, error) {
	return nil, errors.New("db down")
}

func (brokenCatalog) Get(context.Context, string) (model.Space, error) {
	return model.Space{}, errors.New("db down")
}

func (brokenCatalog) SiteInfo(context.Context) (service.SiteInfo, error) {
	return service.SiteInfo{}, errors.New("db down")
}

func TestRespondStorageFailureApologises(t *testing.T) {
	f := newFixture(t)
	bot := New(brokenCatalog{}, f.bookings, f.store.Suggestions)

	reply, err := bot.Respond(context.Background(), nil, "What rooms are available?")
	require.NoError(t, err)
	assert.Equal(t, textError, reply.Text)
	assert.Equal(t, IntentAvailableRooms, reply.Intent)
}

func TestBookUsesWorkingDayDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	s1 := f.store.AddSpace(t, "S1")

	res, err := f.bot.Book(ctx, &alice, BookRequest{SpaceID: s1.ID})
	require.NoError(t, err)

	b := res.Booking
	assert.Equal(t, "2024-05-31", b.BookingDate)
	assert.Equal(t, time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC), b.StartTime.UTC())
	assert.Equal(t, time.Date(2024, 5, 31, 18, 0, 0, 0, time.UTC), b.EndTime.UTC())
	assert.Equal(t, model.SourceAssistant, b.Source)
	assert.Equal(t, "AI Assistant booking", b.Purpose)

	logged, err := f.store.Suggestions.ListByUser(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, model.SuggestionAccepted, logged[0].Status)

	// The same default slot is now taken.
	_, err = f.bot.Book(ctx, &alice, BookRequest{SpaceID: s1.ID})
	var conflict *service.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestDefaultWindowFollowsTheClock(t *testing.T) {
	cases := []struct {
		at   time.Time
		want dayWindow
	}{
		{time.Date(2024, 5, 31, 8, 0, 0, 0, time.UTC), dayWindow{Proposal{"2024-05-31", "09:00", "18:00"}, "today"}},
		{time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC), dayWindow{Proposal{"2024-05-31", "10:00", "18:00"}, "today"}},
		{time.Date(2024, 5, 31, 10, 10, 0, 0, time.UTC), dayWindow{Proposal{"2024-05-31", "10:30", "18:00"}, "today"}},
		{time.Date(2024, 5, 31, 10, 30, 1, 0, time.UTC), dayWindow{Proposal{"2024-05-31", "11:00", "18:00"}, "today"}},
		{time.Date(2024, 5, 31, 17, 30, 0, 0, time.UTC), dayWindow{Proposal{"2024-05-31", "17:30", "18:00"}, "today"}},
		{time.Date(2024, 5, 31, 17, 31, 0, 0, time.UTC), dayWindow{Proposal{"2024-06-01", "09:00", "18:00"}, "tomorrow"}},
		{time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC), dayWindow{Proposal{"2024-06-01", "09:00", "18:00"}, "tomorrow"}},
	}
	f := newFixture(t)
	for _, tc := range cases {
		t.Run(tc.at.Format(time.Kitchen), func(t *testing.T) {
			f.clock.Set(tc.at)
			assert.Equal(t, tc.want, f.bot.defaultWindow())
		})
	}
}

func TestProposalIsBookableAfterOpening(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	s1 := f.store.AddSpace(t, "S1")
	s2 := f.store.AddSpace(t, "S2")
	f.clock.Set(time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC))

	reply, err := f.bot.Respond(ctx, &alice, "What rooms are available?")
	require.NoError(t, err)
	require.NotNil(t, reply.Proposal)
	assert.Equal(t, Proposal{BookingDate: "2024-05-31", StartTime: "10:00", EndTime: "18:00"}, *reply.Proposal)

	p := reply.Proposal
	res, err := f.bot.Book(ctx, &alice, BookRequest{SpaceID: s1.ID, BookingDate: p.BookingDate, StartTime: p.StartTime, EndTime: p.EndTime})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC), res.Booking.StartTime.UTC())

	res, err = f.bot.Book(ctx, &alice, BookRequest{SpaceID: s2.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-31", res.Booking.BookingDate)
	assert.Equal(t, time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC), res.Booking.StartTime.UTC())
}

func TestProposalRollsOverAfterClosing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	s1 := f.store.AddSpace(t, "S1", testfixtures.WithLocation("Downtown", ""))
	f.clock.Set(time.Date(2024, 5, 31, 19, 0, 0, 0, time.UTC))

	reply, err := f.bot.Respond(ctx, &alice, "Book a desk in Downtown")
	require.NoError(t, err)
	require.NotNil(t, reply.Proposal)
	assert.Equal(t, "2024-06-01", reply.Proposal.BookingDate)

	res, err := f.bot.Book(ctx, &alice, BookRequest{SpaceID: s1.ID})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", res.Booking.BookingDate)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), res.Booking.StartTime.UTC())
}

func TestRespondBookTimeAlreadyPassed(t *testing.T) {
	f := newFixture(t)
	alice := f.store.AddUser(t, "alice")
	f.store.AddSpace(t, "S1")
	f.clock.Set(time.Date(2024, 5, 31, 14, 0, 0, 0, time.UTC))

	reply, err := f.bot.Respond(context.Background(), &alice, "book a desk from 9am to 11am")
	require.NoError(t, err)
	assert.Equal(t, IntentBookTime, reply.Intent)
	assert.Equal(t, "09:00 has already passed today. Pick a later start time, or ask what's available.", reply.Text)
	assert.Nil(t, reply.Proposal)
	assert.Empty(t, reply.Spaces)
}

func TestDismiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	s1 := f.store.AddSpace(t, "S1")

	require.NoError(t, f.bot.Dismiss(ctx, &alice, DismissRequest{SpaceID: s1.ID, Message: "Not today"}))

	logged, err := f.store.Suggestions.ListByUser(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, model.SuggestionDismissed, logged[0].Status)
	assert.Equal(t, model.OriginAssistant, logged[0].Origin)
	require.NotNil(t, logged[0].SpaceID)
	assert.Equal(t, s1.ID, *logged[0].SpaceID)
	assert.Nil(t, logged[0].RelatedBookingID)
}

func TestDismissRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	alice := f.store.AddUser(t, "alice")

	var authErr *service.AuthError
	assert.ErrorAs(t, f.bot.Dismiss(context.Background(), nil, DismissRequest{Message: "x"}), &authErr)

	var verr *service.ValidationError
	err := f.bot.Dismiss(context.Background(), &alice, DismissRequest{SpaceID: "nope"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "message")
	assert.Contains(t, verr.Fields, "space_id")
}
