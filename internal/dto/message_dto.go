package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMessageRequest struct {
	ChatTitle string     `json:"chat_title"`
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	HasCode   bool       `json:"has_code"`
	Sequence  *int       `json:"sequence"`
	Timestamp *time.Time `json:"timestamp"`
}

type CreateMessagesBatchRequest struct {
	Messages []CreateMessageRequest `json:"messages"`
}

type RenameConversationRequest struct {
	NewTitle string `json:"new_title" validate:"required,max=255"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	ChatTitle string    `json:"chat_title"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	HasCode   bool      `json:"has_code"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationSummaryResponse struct {
	Title         string    `json:"title"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type DeleteConversationResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

type RenameConversationResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}
