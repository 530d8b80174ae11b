package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	UID       string    `json:"uid"`
	Provider  string    `json:"provider"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOwner reports whether u created w. A nil user owns nothing.
func (u *User) IsOwner(w Work) bool {
	if u == nil {
		return false
	}
	return u.ID == w.OwnerUserID
}

// UserProfile is a user together with what they added and what they voted for.
type UserProfile struct {
	User       User   `json:"user"`
	Works      []Work `json:"works"`
	VotedWorks []Work `json:"voted_works"`
}
