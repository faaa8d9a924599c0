package models

import "github.com/google/uuid"

// UserRecord is the identity issued by a successful login. It is immutable
// once issued and replaced wholesale on re-login.
type UserRecord struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Role       string     `json:"role"`
	IsVerified bool       `json:"is_verified"`
	BusinessID *uuid.UUID `json:"business_id,omitempty"`
}

// FullName returns the display name for the user.
func (u *UserRecord) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
