package contract

import (
	"context"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	CreateBatch(ctx context.Context, messages []*entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Summaries lists the user's conversations, most recently active first.
	Summaries(ctx context.Context, userId uuid.UUID) ([]*entity.ConversationSummary, error)
	RenameConversation(ctx context.Context, userId uuid.UUID, oldTitle, newTitle string) (int64, error)
	DeleteConversation(ctx context.Context, userId uuid.UUID, title string) (int64, error)
}
