package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/workspace-booking/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user profile.  Accounts normally arrive from the
// identity provider; this is used by the seed command and tests.
func (r *UserRepo) Create(ctx context.Context, u model.UserProfile, now time.Time) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	role := u.Role
	if role == "" {
		role = "member"
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, full_name, phone, role, is_active, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?)",
		u.ID, email, u.FullName, nullableString(u.Phone), role, u.IsActive, ts(now), ts(now))
	if isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.UserProfile, error) {
	var (
		u     model.UserProfile
		phone sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,phone,role,is_active FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.FullName, &phone, &u.Role, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserProfile{}, ErrUserNotFound
	}
	u.Phone = phone.String
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id string
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserProfile{}, ErrUserNotFound
	}
	if err != nil {
		return model.UserProfile{}, err
	}
	return r.GetByID(ctx, id)
}
