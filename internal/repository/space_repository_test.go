package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
	"github.com/iliyamo/workspace-booking/internal/testfixtures"
)

func TestSpaceSearchAppliesFilters(t *testing.T) {
	st := testfixtures.NewStore(t)
	ctx := context.Background()
	st.AddSpace(t, "Window Desk", testfixtures.WithFeatures("window", "standing"))
	st.AddSpace(t, "Harbour Room", testfixtures.WithType(model.SpaceRoom), testfixtures.WithCapacity(8))
	st.AddSpace(t, "Broken Desk", testfixtures.WithStatus(model.SpaceMaintenance))
	st.AddSpace(t, "Hidden Desk", testfixtures.NotBookable())

	all, err := st.Spaces.Search(ctx, model.SpaceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Broken Desk", all[0].Name)

	rooms, err := st.Spaces.Search(ctx, model.SpaceFilter{Type: model.SpaceRoom, MinCapacity: 4})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Harbour Room", rooms[0].Name)

	windows, err := st.Spaces.Search(ctx, model.SpaceFilter{Features: []string{"window", "standing"}})
	require.NoError(t, err)
	require.Len(t, windows, 1)

	offerable, err := st.Spaces.ListOfferable(ctx)
	require.NoError(t, err)
	assert.Len(t, offerable, 2)
}

func TestSpaceIngestionDefaultsFromRawRow(t *testing.T) {
	st := testfixtures.NewStore(t)
	ctx := context.Background()
	_, err := st.DB.ExecContext(ctx, `INSERT INTO spaces (id, name, space_type, location, capacity, features, status)
		VALUES ('raw-1', 'Odd', 'pod', '', 0, '{broken', 'unknown')`)
	require.NoError(t, err)

	s, err := st.Spaces.GetByID(ctx, "raw-1")
	require.NoError(t, err)
	assert.Equal(t, model.SpaceDesk, s.SpaceType)
	assert.Equal(t, model.UnknownLocation, s.Location)
	assert.Equal(t, 1, s.Capacity)
	assert.Empty(t, s.Features)
	assert.Equal(t, model.SpaceAvailable, s.Status)
}

func TestSpaceGetByIDNotFound(t *testing.T) {
	st := testfixtures.NewStore(t)
	_, err := st.Spaces.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrSpaceNotFound)
}

func TestPlacesAndLocations(t *testing.T) {
	st := testfixtures.NewStore(t)
	ctx := context.Background()
	st.AddSpace(t, "A", testfixtures.WithLocation("Level 2", "Sydney"))
	st.AddSpace(t, "B", testfixtures.WithLocation("Level 1", "Melbourne"))
	st.AddSpace(t, "C", testfixtures.WithLocation("Level 1", "Sydney"))
	st.AddSpace(t, "D", testfixtures.WithLocation("Basement", ""), testfixtures.NotBookable())

	places, err := st.Spaces.Places(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Melbourne", "Sydney"}, places)

	locs, err := st.Spaces.ActiveLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Level 1", "Level 2"}, locs)

	n, err := st.Spaces.CountBookable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLockTxUnknownSpace(t *testing.T) {
	st := testfixtures.NewStore(t)
	ctx := context.Background()
	tx, err := st.DB.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	assert.ErrorIs(t, st.Spaces.LockTx(ctx, tx, "missing"), repository.ErrSpaceNotFound)
}
