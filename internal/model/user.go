package model

// UserProfile mirrors the `users` table.  Accounts are provisioned by the
// external identity provider; this service only reads them to stamp the
// contact snapshot on bookings.
//
// Fields:
//  ID       – subject of the bearer token (UUID).
//  Email    – contact address, used for confirmations.
//  FullName – display name.
//  Phone    – optional phone number.
//  Role     – organisational role (member, manager, ...).
//  IsActive – inactive accounts cannot open a session.
type UserProfile struct {
    ID       string `json:"id"`        // users.id
    Email    string `json:"email"`     // users.email
    FullName string `json:"full_name"` // users.full_name
    Phone    string `json:"phone"`     // users.phone (nullable)
    Role     string `json:"role"`      // users.role
    IsActive bool   `json:"is_active"` // users.is_active
}

// Session is the authenticated caller.  It is built once per request by
// the auth middleware and passed explicitly to every operation that needs
// to know who is acting.
type Session struct {
    UserID  string
    Profile UserProfile
}

// Authenticated reports whether s identifies a user.
func (s *Session) Authenticated() bool {
    return s != nil && s.UserID != ""
}
