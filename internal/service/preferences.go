package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

// PreferenceService reads and replaces a user's advisory settings.
type PreferenceService struct {
	repo  *repository.PreferenceRepo
	now   func() time.Time
	newID func() string
}

func NewPreferenceService(repo *repository.PreferenceRepo) *PreferenceService {
	if repo == nil {
		panic("nil repository passed to NewPreferenceService")
	}
	return &PreferenceService{repo: repo, now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the clock used for row timestamps.
func (s *PreferenceService) WithClock(now func() time.Time) *PreferenceService {
	s.now = now
	return s
}

// Get returns the stored preferences, or the defaults when the user has
// never saved any.
func (s *PreferenceService) Get(ctx context.Context, sess *model.Session) (model.Preferences, error) {
	if err := requireSession(sess); err != nil {
		return model.Preferences{}, err
	}
	p, _, err := s.repo.Get(ctx, sess.UserID)
	if err != nil {
		return model.Preferences{}, &StorageError{Op: "load preferences", Err: err}
	}
	return p, nil
}

// Update replaces the user's row with p.  Fields left unset revert to their
// defaults; nothing is merged with what was stored before.
func (s *PreferenceService) Update(ctx context.Context, sess *model.Session, p model.Preferences) (model.Preferences, error) {
	if err := requireSession(sess); err != nil {
		return model.Preferences{}, err
	}
	p.UserID = sess.UserID
	if err := Validate(p); err != nil {
		return model.Preferences{}, err
	}
	if err := s.repo.Upsert(ctx, p, s.newID(), s.now()); err != nil {
		return model.Preferences{}, &StorageError{Op: "save preferences", Err: err}
	}
	log.Debug().Str("user_id", sess.UserID).Msg("preferences saved")
	return s.Get(ctx, sess)
}
