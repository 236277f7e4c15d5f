package service

import (
	"context"
	"fmt"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/repository/specification"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/pkg/conversation"

	"github.com/google/uuid"
)

// MessageStore is the synchronous conversation.Store backed by the database.
type MessageStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMessageStore(uowFactory unitofwork.RepositoryFactory) *MessageStore {
	return &MessageStore{uowFactory: uowFactory}
}

func (s *MessageStore) AppendBatch(ctx context.Context, userID string, messages []conversation.Message) error {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	batch := make([]*entity.Message, len(messages))
	for i, m := range messages {
		batch[i] = &entity.Message{
			UserId:            owner,
			ConversationTitle: m.ConversationTitle,
			Sender:            m.Sender,
			Content:           m.Content,
			HasCode:           m.HasCode,
			Sequence:          m.Sequence,
			Timestamp:         m.Timestamp,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().CreateBatch(ctx, batch); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *MessageStore) ListConversationSummaries(ctx context.Context, userID string) ([]conversation.Summary, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	rows, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().Summaries(ctx, owner)
	if err != nil {
		return nil, err
	}

	summaries := make([]conversation.Summary, len(rows))
	for i, r := range rows {
		summaries[i] = conversation.Summary{Title: r.Title, LastMessageAt: r.LastMessageAt}
	}
	return summaries, nil
}

func (s *MessageStore) ListMessages(ctx context.Context, userID, title string) ([]conversation.Message, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	rows, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: owner},
		specification.ByConversationTitle{Title: title},
		specification.InSequenceOrder{},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]conversation.Message, len(rows))
	for i, r := range rows {
		messages[i] = conversation.Message{
			ConversationTitle: r.ConversationTitle,
			Sender:            r.Sender,
			Content:           r.Content,
			HasCode:           r.HasCode,
			Sequence:          r.Sequence,
			Timestamp:         r.Timestamp,
		}
	}
	return messages, nil
}

func (s *MessageStore) RenameConversation(ctx context.Context, userID, oldTitle, newTitle string) error {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	_, err = s.uowFactory.NewUnitOfWork(ctx).MessageRepository().RenameConversation(ctx, owner, oldTitle, newTitle)
	return err
}

func (s *MessageStore) DeleteConversation(ctx context.Context, userID, title string) (int64, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return s.uowFactory.NewUnitOfWork(ctx).MessageRepository().DeleteConversation(ctx, owner, title)
}
