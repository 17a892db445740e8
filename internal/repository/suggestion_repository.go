package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/workspace-booking/internal/model"
)

// SuggestionRepo appends to the suggestions log.  There is deliberately no
// update or delete.
type SuggestionRepo struct {
	db *sql.DB
}

// NewSuggestionRepo returns a new SuggestionRepo bound to the given database.
func NewSuggestionRepo(db *sql.DB) *SuggestionRepo { return &SuggestionRepo{db: db} }

// Append inserts one suggestion entry.
func (r *SuggestionRepo) Append(ctx context.Context, s model.Suggestion) error {
	var spaceID, bookingID any
	if s.SpaceID != nil {
		spaceID = *s.SpaceID
	}
	if s.RelatedBookingID != nil {
		bookingID = *s.RelatedBookingID
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO suggestions (id, user_id, space_id, related_booking_id,
		suggestion_type, message, origin, status, delivered_via, suggested_time, valid_until, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, spaceID, bookingID, s.SuggestionType, s.Message, s.Origin, s.Status,
		nullableString(s.DeliveredVia), nullableTS(s.SuggestedTime), nullableTS(s.ValidUntil), ts(s.CreatedAt))
	return err
}

// ListByUser returns a user's suggestion log, newest first.  Used by audit
// tooling and tests only.
func (r *SuggestionRepo) ListByUser(ctx context.Context, userID string) ([]model.Suggestion, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, space_id, related_booking_id, suggestion_type,
		message, origin, status, delivered_via, suggested_time, valid_until, created_at
		FROM suggestions WHERE user_id = ? ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Suggestion{}
	for rows.Next() {
		var (
			s                         model.Suggestion
			spaceID, bookingID, via   sql.NullString
			suggested, valid, created dbTime
		)
		if err := rows.Scan(&s.ID, &s.UserID, &spaceID, &bookingID, &s.SuggestionType, &s.Message,
			&s.Origin, &s.Status, &via, &suggested, &valid, &created); err != nil {
			return nil, err
		}
		if spaceID.Valid {
			s.SpaceID = &spaceID.String
		}
		if bookingID.Valid {
			s.RelatedBookingID = &bookingID.String
		}
		s.DeliveredVia = via.String
		s.SuggestedTime = suggested.ptr()
		s.ValidUntil = valid.ptr()
		s.CreatedAt = created.Time
		out = append(out, s)
	}
	return out, rows.Err()
}
