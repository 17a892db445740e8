// Package testfixtures offers SQLite-backed storage and deterministic
// helpers for tests across packages.
package testfixtures

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/workspace-booking/internal/database"
	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

// Store bundles a migrated temporary database with its repositories.
type Store struct {
	DB          *sql.DB
	Users       *repository.UserRepo
	Spaces      *repository.SpaceRepo
	Bookings    *repository.BookingRepo
	Preferences *repository.PreferenceRepo
	Suggestions *repository.SuggestionRepo
	Audit       *repository.AuditRepo
}

// poolSize lets concurrent tests hold several transactions at once.
const poolSize = 4

// NewStore opens a SQLite file under tb.TempDir, applies the embedded
// migrations and registers cleanup with tb.
func NewStore(tb testing.TB) *Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "booking.db")
	db, err := database.OpenSQLite(path, poolSize)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if err := database.MigrateSQLite(db, "up"); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	return &Store{
		DB:          db,
		Users:       repository.NewUserRepo(db),
		Spaces:      repository.NewSpaceRepo(db),
		Bookings:    repository.NewBookingRepo(db),
		Preferences: repository.NewPreferenceRepo(db),
		Suggestions: repository.NewSuggestionRepo(db),
		Audit:       repository.NewAuditRepo(db),
	}
}

// AddUser inserts an active member and returns a session for it.
func (s *Store) AddUser(tb testing.TB, name string) model.Session {
	tb.Helper()
	u := model.UserProfile{
		ID:       uuid.NewString(),
		Email:    name + "@example.com",
		FullName: name,
		Phone:    "+1 555 0100",
		Role:     "member",
		IsActive: true,
	}
	if err := s.Users.Create(context.Background(), u, ReferenceTime()); err != nil {
		tb.Fatalf("add user %s: %v", name, err)
	}
	return model.Session{UserID: u.ID, Profile: u}
}

// SpaceOption tweaks a space before AddSpace inserts it.
type SpaceOption func(*model.Space)

// AddSpace inserts an offerable desk named name and returns it.
func (s *Store) AddSpace(tb testing.TB, name string, opts ...SpaceOption) model.Space {
	tb.Helper()
	sp := model.Space{
		ID:         uuid.NewString(),
		Name:       name,
		SpaceType:  model.SpaceDesk,
		Location:   "Main Floor",
		Capacity:   1,
		Features:   []string{},
		Equipment:  []string{},
		IsBookable: true,
		Status:     model.SpaceAvailable,
	}
	for _, opt := range opts {
		opt(&sp)
	}
	if err := s.Spaces.Insert(context.Background(), sp); err != nil {
		tb.Fatalf("add space %s: %v", name, err)
	}
	return sp
}

// AddBooking inserts a booking directly, bypassing the booking service.
func (s *Store) AddBooking(tb testing.TB, sess model.Session, spaceID, date, start, end string, status model.BookingStatus) model.Booking {
	tb.Helper()
	slot, err := model.NewSlot(date, start, end, time.UTC)
	if err != nil {
		tb.Fatalf("slot: %v", err)
	}
	b := model.Booking{
		ID:          uuid.NewString(),
		UserID:      sess.UserID,
		SpaceID:     spaceID,
		BookingDate: slot.Date,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		FullName:    sess.Profile.FullName,
		Email:       sess.Profile.Email,
		Role:        sess.Profile.Role,
		Status:      status,
		Source:      model.SourceWeb,
		CreatedAt:   ReferenceTime(),
		UpdatedAt:   ReferenceTime(),
	}
	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		tb.Fatalf("begin: %v", err)
	}
	if err := s.Bookings.CreateTx(ctx, tx, b); err != nil {
		_ = tx.Rollback()
		tb.Fatalf("add booking: %v", err)
	}
	if err := tx.Commit(); err != nil {
		tb.Fatalf("commit: %v", err)
	}
	return b
}

// WithType sets the space type.
func WithType(t model.SpaceType) SpaceOption { return func(s *model.Space) { s.SpaceType = t } }

// WithLocation sets location and places.
func WithLocation(location, places string) SpaceOption {
	return func(s *model.Space) { s.Location, s.Places = location, places }
}

// WithStatus sets the operational status.
func WithStatus(st model.SpaceStatus) SpaceOption { return func(s *model.Space) { s.Status = st } }

// NotBookable clears is_bookable.
func NotBookable() SpaceOption { return func(s *model.Space) { s.IsBookable = false } }

// WithCapacity sets the capacity.
func WithCapacity(n int) SpaceOption { return func(s *model.Space) { s.Capacity = n } }

// WithFeatures sets the feature tags.
func WithFeatures(f ...string) SpaceOption { return func(s *model.Space) { s.Features = f } }
