package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/workspace-booking/internal/model"
)

// BookingRepo persists bookings.  Start and end instants are stored in UTC
// using the fixed text layout from scan.go; booking_date is the calendar
// date in the booking zone.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, user_id, space_id, booking_date, start_time, end_time,
	full_name, email, phone, role, space_type, location, purpose, notes, status,
	checked_in, no_show, overbooked, was_rescheduled, source, created_at, updated_at`

func scanBooking(rs rowScanner) (model.Booking, error) {
	var (
		b                                          model.Booking
		date, start, end, created, updated         dbTime
		phone, spaceType, location, purpose, notes sql.NullString
		status                                     string
	)
	err := rs.Scan(&b.ID, &b.UserID, &b.SpaceID, &date, &start, &end,
		&b.FullName, &b.Email, &phone, &b.Role, &spaceType, &location, &purpose, &notes, &status,
		&b.CheckedIn, &b.NoShow, &b.Overbooked, &b.WasRescheduled, &b.Source, &created, &updated)
	if err != nil {
		return model.Booking{}, err
	}
	b.BookingDate = date.Time.Format(model.DateLayout)
	b.StartTime = start.Time
	b.EndTime = end.Time
	b.CreatedAt = created.Time
	b.UpdatedAt = updated.Time
	b.Phone = phone.String
	b.SpaceType = spaceType.String
	b.Location = location.String
	b.Purpose = purpose.String
	b.Notes = notes.String
	b.Status = model.BookingStatus(status)
	return b, nil
}

// overlapSQL is the half-open intersection: an existing blocking booking
// conflicts iff existing.start < requested.end AND existing.end > requested.start.
const overlapSQL = `SELECT COUNT(*) FROM bookings
	WHERE space_id = ? AND booking_date = ? AND status IN ('confirmed', 'active')
	  AND start_time < ? AND end_time > ?`

// HasOverlap reports whether any confirmed or active booking on spaceID
// intersects slot.
func (r *BookingRepo) HasOverlap(ctx context.Context, spaceID string, slot model.Slot) (bool, error) {
	return hasOverlap(ctx, r.db, spaceID, slot)
}

// HasOverlapTx is HasOverlap inside an open transaction.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, spaceID string, slot model.Slot) (bool, error) {
	return hasOverlap(ctx, tx, spaceID, slot)
}

func hasOverlap(ctx context.Context, q queryer, spaceID string, slot model.Slot) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, overlapSQL, spaceID, slot.Date, ts(slot.End), ts(slot.Start)).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// OverlappingSpaceIDs returns the set of spaces that have a blocking
// booking intersecting slot.
func (r *BookingRepo) OverlappingSpaceIDs(ctx context.Context, slot model.Slot) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT space_id FROM bookings
		WHERE booking_date = ? AND status IN ('confirmed', 'active')
		  AND start_time < ? AND end_time > ?`, slot.Date, ts(slot.End), ts(slot.Start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// CreateTx inserts b within the scope of an existing transaction.  The
// caller must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b model.Booking) error {
	const q = `INSERT INTO bookings (id, user_id, space_id, booking_date, start_time, end_time,
		full_name, email, phone, role, space_type, location, purpose, notes, status,
		checked_in, no_show, overbooked, was_rescheduled, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		b.ID, b.UserID, b.SpaceID, b.BookingDate, ts(b.StartTime), ts(b.EndTime),
		b.FullName, b.Email, nullableString(b.Phone), b.Role, nullableString(b.SpaceType),
		nullableString(b.Location), nullableString(b.Purpose), nullableString(b.Notes), string(b.Status),
		b.CheckedIn, b.NoShow, b.Overbooked, b.WasRescheduled, b.Source, ts(b.CreatedAt), ts(b.UpdatedAt))
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// ListByUser returns every booking owned by userID ordered by start time.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY start_time ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID returns a booking regardless of owner, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetForUser returns a booking owned by userID.  A booking owned by
// someone else yields ErrForbidden.
func (r *BookingRepo) GetForUser(ctx context.Context, id, userID string) (model.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.UserID != userID {
		return model.Booking{}, ErrForbidden
	}
	return b, nil
}

// CancelForUser moves an owned booking to cancelled.  It reports whether a
// row changed; cancelling an already cancelled booking changes nothing and
// is not an error.
func (r *BookingRepo) CancelForUser(ctx context.Context, id, userID string, now time.Time) (bool, error) {
	var owner, status string
	err := r.db.QueryRowContext(ctx, `SELECT user_id, status FROM bookings WHERE id = ?`, id).Scan(&owner, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrBookingNotFound
	}
	if err != nil {
		return false, err
	}
	if owner != userID {
		return false, ErrForbidden
	}
	if model.BookingStatus(status) == model.BookingCancelled {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND status <> ?`,
		string(model.BookingCancelled), ts(now), id, userID, string(model.BookingCancelled))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByStatus counts bookings in the given status.
func (r *BookingRepo) CountByStatus(ctx context.Context, status model.BookingStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE status = ?`, string(status)).Scan(&n)
	return n, err
}

// BookingDetail joins a booking with the space fields the confirmation
// message needs.
type BookingDetail struct {
	Booking       model.Booking
	SpaceName     string
	SpaceLocation string
	SpaceType     string
}

// GetDetail loads a booking and its space, or ErrBookingNotFound.
func (r *BookingRepo) GetDetail(ctx context.Context, id string) (BookingDetail, error) {
	var d BookingDetail
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return d, err
	}
	var location string
	err = r.db.QueryRowContext(ctx, `SELECT name, location, space_type FROM spaces WHERE id = ?`, b.SpaceID).
		Scan(&d.SpaceName, &location, &d.SpaceType)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrBookingNotFound
	}
	if err != nil {
		return d, err
	}
	d.Booking = b
	d.SpaceLocation = location
	if d.SpaceLocation == "" {
		d.SpaceLocation = model.UnknownLocation
	}
	return d, nil
}
