package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/testfixtures"
)

func TestAvailableForExcludesBusyAndClosedSpaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	busy := f.store.AddSpace(t, "Busy")
	free := f.store.AddSpace(t, "Free")
	adjacent := f.store.AddSpace(t, "Adjacent")
	f.store.AddSpace(t, "Closed", testfixtures.WithStatus(model.SpaceMaintenance))
	f.store.AddBooking(t, alice, busy.ID, "2024-06-01", "09:00", "12:00", model.BookingConfirmed)
	f.store.AddBooking(t, alice, adjacent.ID, "2024-06-01", "08:00", "10:00", model.BookingConfirmed)
	f.store.AddBooking(t, alice, free.ID, "2024-06-01", "10:00", "11:00", model.BookingCancelled)

	got, err := f.catalog.AvailableFor(ctx, "2024-06-01", "10:00", "11:00")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Adjacent", "Free"}, names)
}

func TestAvailableForValidatesSlot(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.AvailableFor(context.Background(), "2024-06-01", "11:00", "10:00")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCatalogGetAndSiteInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.store.AddUser(t, "alice")
	a := f.store.AddSpace(t, "A", testfixtures.WithLocation("Level 1", "Sydney"))
	f.store.AddSpace(t, "B", testfixtures.WithLocation("Level 2", "Sydney"))
	f.store.AddSpace(t, "C", testfixtures.WithLocation("Attic", ""), testfixtures.NotBookable())
	f.store.AddBooking(t, alice, a.ID, "2024-06-01", "09:00", "10:00", model.BookingConfirmed)
	f.store.AddBooking(t, alice, a.ID, "2024-06-02", "09:00", "10:00", model.BookingCancelled)

	got, err := f.catalog.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	_, err = f.catalog.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	info, err := f.catalog.SiteInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.BookableSpaces)
	assert.Equal(t, 1, info.ConfirmedBookings)
	assert.Equal(t, []string{"Level 1", "Level 2"}, info.Locations)

	places, err := f.catalog.Places(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sydney"}, places)
}
