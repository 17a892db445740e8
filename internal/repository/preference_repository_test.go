package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/testfixtures"
)

func TestPreferencesDefaultWhenMissing(t *testing.T) {
	st := testfixtures.NewStore(t)
	alice := st.AddUser(t, "alice")

	p, found, err := st.Preferences.Get(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, p.AIPersonaEnabled)
	assert.False(t, p.NotificationOptIn)
	assert.NotNil(t, p.PreferredHours)
}

func TestPreferencesUpsertReplacesRow(t *testing.T) {
	st := testfixtures.NewStore(t)
	ctx := context.Background()
	alice := st.AddUser(t, "alice")
	now := testfixtures.ReferenceTime()
	room := model.SpaceRoom
	style := "focused"

	err := st.Preferences.Upsert(ctx, model.Preferences{
		UserID:             alice.UserID,
		PreferredSpaceType: &room,
		WorkStyle:          &style,
		PreferredHours:     map[string]model.HourRange{"monday": {Start: "09:00", End: "17:00"}},
		AIPersonaEnabled:   true,
		NotificationOptIn:  true,
	}, "pref-1", now)
	require.NoError(t, err)

	// second save omits most fields: they fall back to defaults
	err = st.Preferences.Upsert(ctx, model.Preferences{UserID: alice.UserID, NotificationOptIn: true}, "pref-2", now)
	require.NoError(t, err)

	p, found, err := st.Preferences.Get(ctx, alice.UserID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, p.PreferredSpaceType)
	assert.Nil(t, p.WorkStyle)
	assert.Empty(t, p.PreferredHours)
	assert.False(t, p.AIPersonaEnabled)
	assert.True(t, p.NotificationOptIn)

	var rows int
	require.NoError(t, st.DB.QueryRow(`SELECT COUNT(*) FROM user_preferences`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
