package model

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	WorkID    uuid.UUID `json:"work_id"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteDetail is a vote with the voter's username, as listed on a work page.
type VoteDetail struct {
	Vote
	Username string `json:"username"`
}
