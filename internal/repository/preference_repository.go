package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/workspace-booking/internal/model"
)

// PreferenceRepo stores one user_preferences row per user.
type PreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepo returns a new PreferenceRepo bound to the given database.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

// Get returns the stored preferences and whether a row exists.
func (r *PreferenceRepo) Get(ctx context.Context, userID string) (model.Preferences, bool, error) {
	var (
		spaceType, workStyle, hours sql.NullString
		created, updated            dbTime
		p                           = model.Preferences{UserID: userID}
	)
	err := r.db.QueryRowContext(ctx, `SELECT preferred_space_type, work_style, preferred_hours,
		ai_persona_enabled, notification_opt_in, created_at, updated_at
		FROM user_preferences WHERE user_id = ?`, userID).
		Scan(&spaceType, &workStyle, &hours, &p.AIPersonaEnabled, &p.NotificationOptIn, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPreferences(userID), false, nil
	}
	if err != nil {
		return model.Preferences{}, false, err
	}
	if spaceType.Valid && model.ValidSpaceType(spaceType.String) {
		st := model.SpaceType(spaceType.String)
		p.PreferredSpaceType = &st
	}
	if ws := strings.TrimSpace(workStyle.String); ws != "" {
		p.WorkStyle = &ws
	}
	p.PreferredHours = decodeHours(hours.String)
	p.CreatedAt = created.ptr()
	p.UpdatedAt = updated.ptr()
	return p, true, nil
}

// Upsert replaces the row for p.UserID, inserting it when absent.  Fields
// left unset in p take their schema defaults; nothing is merged with the
// previous row.
func (r *PreferenceRepo) Upsert(ctx context.Context, p model.Preferences, newID string, now time.Time) error {
	var spaceType any
	if p.PreferredSpaceType != nil {
		spaceType = string(*p.PreferredSpaceType)
	}
	var workStyle any
	if p.WorkStyle != nil {
		workStyle = nullableString(*p.WorkStyle)
	}
	var hours any
	if len(p.PreferredHours) > 0 {
		raw, err := json.Marshal(p.PreferredHours)
		if err != nil {
			return err
		}
		hours = string(raw)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE user_preferences SET preferred_space_type = ?, work_style = ?,
		preferred_hours = ?, ai_persona_enabled = ?, notification_opt_in = ?, updated_at = ?
		WHERE user_id = ?`,
		spaceType, workStyle, hours, p.AIPersonaEnabled, p.NotificationOptIn, ts(now), p.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = tx.ExecContext(ctx, `INSERT INTO user_preferences (id, user_id, preferred_space_type, work_style,
			preferred_hours, ai_persona_enabled, notification_opt_in, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			newID, p.UserID, spaceType, workStyle, hours, p.AIPersonaEnabled, p.NotificationOptIn, ts(now), ts(now))
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// decodeHours drops malformed JSON and entries for unknown weekdays.
func decodeHours(raw string) map[string]model.HourRange {
	out := map[string]model.HourRange{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	var in map[string]model.HourRange
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return out
	}
	for _, day := range model.Weekdays {
		if hr, ok := in[day]; ok && hr.Start != "" && hr.End != "" {
			out[day] = hr
		}
	}
	return out
}
