package model

import (
	"time"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/google/uuid"
)

type Work struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	Category        category.Category `json:"category"`
	Creator         string            `json:"creator,omitempty"`
	Description     string            `json:"description,omitempty"`
	PublicationYear *int              `json:"publication_year,omitempty"`
	CoverURL        string            `json:"cover_url,omitempty"`
	OwnerUserID     uuid.UUID         `json:"user_id"`
	VoteCount       int               `json:"vote_count"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// WorkRequest is the payload for creating or updating a work. Category is
// left untyped so that whatever the client sent reaches the normalizer.
type WorkRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Category        any    `json:"category" validate:"required,category"`
	Creator         string `json:"creator" validate:"max=255"`
	Description     string `json:"description" validate:"max=5000"`
	PublicationYear *int   `json:"publication_year" validate:"omitempty,gte=0,lte=9999"`
}

// WorkDetail is a work with its votes, newest first.
type WorkDetail struct {
	Work  Work         `json:"work"`
	Votes []VoteDetail `json:"votes"`
}

// Event describes a change to the ranking inputs, pushed to live listeners.
type Event struct {
	Type      string            `json:"type"`
	WorkID    uuid.UUID         `json:"work_id"`
	Title     string            `json:"title,omitempty"`
	Category  category.Category `json:"category"`
	VoteCount int               `json:"vote_count"`
}

const (
	EventWorkCreated = "work_created"
	EventWorkUpdated = "work_updated"
	EventWorkDeleted = "work_deleted"
	EventVoteCast    = "vote_cast"
)
