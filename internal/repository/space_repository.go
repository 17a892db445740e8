package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/iliyamo/workspace-booking/internal/model"
)

// SpaceRepo reads the shared space catalog.  Spaces are maintained by an
// external admin process; the only write here is the lock_version bump that
// serializes booking writers on one space.
type SpaceRepo struct {
	db *sql.DB
}

// NewSpaceRepo returns a new SpaceRepo bound to the given database.
func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

const spaceColumns = `id, name, space_type, location, places, capacity, features, equipment,
	is_private, is_bookable, status, usage_score, last_used_at`

func scanSpace(rs rowScanner) (model.Space, error) {
	var (
		rec       model.SpaceRecord
		places    sql.NullString
		features  sql.NullString
		equipment sql.NullString
		lastUsed  dbTime
	)
	if err := rs.Scan(&rec.ID, &rec.Name, &rec.SpaceType, &rec.Location, &places, &rec.Capacity,
		&features, &equipment, &rec.IsPrivate, &rec.IsBookable, &rec.Status, &rec.UsageScore, &lastUsed); err != nil {
		return model.Space{}, err
	}
	rec.Places = places.String
	rec.Features = []byte(features.String)
	rec.Equipment = []byte(equipment.String)
	rec.LastUsedAt = lastUsed.ptr()
	return model.SpaceFromRecord(rec), nil
}

// GetByID returns a single space or ErrSpaceNotFound.
func (r *SpaceRepo) GetByID(ctx context.Context, id string) (model.Space, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE id = ?`, id)
	s, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Space{}, ErrSpaceNotFound
	}
	return s, err
}

// Search returns spaces matching f ordered by name.  Only the boolean flags
// are pushed into SQL; columns that ingestion may rewrite (type, status,
// capacity, location) are filtered after mapping so both paths agree.
func (r *SpaceRepo) Search(ctx context.Context, f model.SpaceFilter) ([]model.Space, error) {
	where := []string{}
	args := []any{}
	if f.IsPrivate != nil {
		where = append(where, "is_private = ?")
		args = append(args, *f.IsPrivate)
	}
	if f.BookableOnly {
		where = append(where, "is_bookable = ?")
		args = append(args, true)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE `+cond+` ORDER BY name ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Space{}
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out, rows.Err()
}

// ListOfferable returns bookable spaces in the available state.
func (r *SpaceRepo) ListOfferable(ctx context.Context) ([]model.Space, error) {
	return r.Search(ctx, model.SpaceFilter{BookableOnly: true, Status: model.SpaceAvailable})
}

// Places returns the distinct non-empty places values, sorted.
func (r *SpaceRepo) Places(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT places FROM spaces WHERE places IS NOT NULL AND places <> ''`)
}

// ActiveLocations returns the distinct locations of bookable spaces.
func (r *SpaceRepo) ActiveLocations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT location FROM spaces WHERE is_bookable = ? AND location <> ''`, true)
}

func (r *SpaceRepo) distinct(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// CountBookable counts spaces with is_bookable set.
func (r *SpaceRepo) CountBookable(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spaces WHERE is_bookable = ?`, true).Scan(&n)
	return n, err
}

// LockTx takes the row lock on a space for the rest of tx.  On InnoDB the
// UPDATE holds an exclusive row lock until commit; on SQLite it takes the
// database write lock.  Either way concurrent writers for the same space
// queue behind each other.  Returns ErrSpaceNotFound when no row matched.
func (r *SpaceRepo) LockTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `UPDATE spaces SET lock_version = lock_version + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSpaceNotFound
	}
	return nil
}

// Insert stores a space.  The service never calls it; it exists for the
// seed tooling and tests standing in for the admin process.
func (r *SpaceRepo) Insert(ctx context.Context, s model.Space) error {
	features, err := json.Marshal(nonNil(s.Features))
	if err != nil {
		return err
	}
	equipment, err := json.Marshal(nonNil(s.Equipment))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO spaces (id, name, space_type, location, places, capacity, features, equipment,
		is_private, is_bookable, status, usage_score, last_used_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, string(s.SpaceType), s.Location, nullableString(s.Places), s.Capacity, string(features), string(equipment),
		s.IsPrivate, s.IsBookable, string(s.Status), s.UsageScore, nullableTS(s.LastUsedAt))
	return err
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
