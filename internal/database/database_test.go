package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-booking/internal/config"
)

func TestSQLiteMigrationsUpDown(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "m.db"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	cfg := config.DBConfig{Driver: "sqlite"}

	require.NoError(t, Migrate(db, cfg, "up"))
	require.NoError(t, Migrate(db, cfg, "up"), "a second run is a no-op")

	for _, table := range []string{"users", "spaces", "bookings", "user_preferences", "suggestions", "audit_logs"} {
		var n int
		assert.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n), table)
	}

	require.NoError(t, Migrate(db, cfg, "down"))
	var n int
	assert.Error(t, db.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&n))
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "m.db"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Error(t, Migrate(db, config.DBConfig{Driver: "sqlite"}, "sideways"))
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DBConfig{User: "app", Pass: "pw", Host: "db", Port: "3306", Name: "ws"})
	assert.Equal(t, "app:pw@tcp(db:3306)/ws?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", dsn)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
