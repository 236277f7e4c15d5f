package entity

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	ConversationTitle string
	Sender            string
	Content           string
	HasCode           bool
	Sequence          int
	Timestamp         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	Title         string
	LastMessageAt time.Time
}
