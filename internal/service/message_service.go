package service

import (
	"context"
	"strings"
	"time"

	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/specification"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/pkg/conversation"
	"techno-ai-be/pkg/events"

	"github.com/google/uuid"
)

var (
	ErrMissingMessageFields = serverutils.NewBadRequestError("Missing required fields")
	ErrMissingBatchFields   = serverutils.NewBadRequestError("Missing required fields in message")
	ErrEmptyBatch           = serverutils.NewBadRequestError("Messages array is required")
	ErrInvalidSender        = serverutils.NewBadRequestError("Sender must be the authenticated user or bot")
	ErrMissingTitle         = serverutils.NewBadRequestError("Conversation title is required")
)

// IMessageService is the HTTP persistence API over a user's stored messages.
type IMessageService interface {
	Summaries(ctx context.Context, userId uuid.UUID) ([]dto.ConversationSummaryResponse, error)
	Messages(ctx context.Context, userId uuid.UUID, title string) ([]dto.MessageResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.MessageResponse, error)
	CreateBatch(ctx context.Context, userId uuid.UUID, req *dto.CreateMessagesBatchRequest) ([]dto.MessageResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, title string, req *dto.RenameConversationRequest) (*dto.RenameConversationResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, title string) (*dto.DeleteConversationResponse, error)
}

type messageService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, logger logger.ILogger) IMessageService {
	return &messageService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *messageService) Summaries(ctx context.Context, userId uuid.UUID) ([]dto.ConversationSummaryResponse, error) {
	rows, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().Summaries(ctx, userId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to fetch chat titles", err)
	}

	res := make([]dto.ConversationSummaryResponse, len(rows))
	for i, r := range rows {
		res[i] = dto.ConversationSummaryResponse{Title: r.Title, LastMessageAt: r.LastMessageAt}
	}
	return res, nil
}

func (s *messageService) Messages(ctx context.Context, userId uuid.UUID, title string) ([]dto.MessageResponse, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingTitle
	}

	rows, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByConversationTitle{Title: title},
		specification.InSequenceOrder{},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to fetch messages", err)
	}
	return toMessageResponses(rows), nil
}

func (s *messageService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	if !hasRequiredFields(req) {
		return nil, ErrMissingMessageFields
	}
	if !validSender(userId, req.Sender) {
		return nil, ErrInvalidSender
	}

	msg := toMessageEntity(userId, req)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, serverutils.NewInternalError("Failed to save message", err)
	}

	res := toMessageResponse(msg)
	return &res, nil
}

// CreateBatch stores all messages or none.
func (s *messageService) CreateBatch(ctx context.Context, userId uuid.UUID, req *dto.CreateMessagesBatchRequest) ([]dto.MessageResponse, error) {
	if len(req.Messages) == 0 {
		return nil, ErrEmptyBatch
	}

	batch := make([]*entity.Message, len(req.Messages))
	for i := range req.Messages {
		item := &req.Messages[i]
		if !hasRequiredFields(item) {
			return nil, ErrMissingBatchFields
		}
		if !validSender(userId, item.Sender) {
			return nil, ErrInvalidSender
		}
		batch[i] = toMessageEntity(userId, item)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().CreateBatch(ctx, batch); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}

	s.publish(ctx, events.MessagesPersisted, userId, map[string]interface{}{
		"title": batch[0].ConversationTitle,
		"count": len(batch),
	})
	return toMessageResponses(batch), nil
}

func (s *messageService) Rename(ctx context.Context, userId uuid.UUID, title string, req *dto.RenameConversationRequest) (*dto.RenameConversationResponse, error) {
	newTitle := strings.TrimSpace(req.NewTitle)
	if strings.TrimSpace(title) == "" || newTitle == "" {
		return nil, ErrMissingTitle
	}

	updated, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().RenameConversation(ctx, userId, title, newTitle)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to rename chat", err)
	}

	s.publish(ctx, events.ConversationRenamed, userId, map[string]interface{}{
		"old_title": title,
		"new_title": newTitle,
	})
	return &dto.RenameConversationResponse{UpdatedCount: updated}, nil
}

func (s *messageService) Delete(ctx context.Context, userId uuid.UUID, title string) (*dto.DeleteConversationResponse, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingTitle
	}

	deleted, err := s.uowFactory.NewUnitOfWork(ctx).MessageRepository().DeleteConversation(ctx, userId, title)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to delete chat", err)
	}

	s.publish(ctx, events.ConversationDeleted, userId, map[string]interface{}{
		"title":         title,
		"deleted_count": deleted,
	})
	return &dto.DeleteConversationResponse{DeletedCount: deleted}, nil
}

func (s *messageService) publish(ctx context.Context, eventType string, userId uuid.UUID, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	data["user_id"] = userId.String()
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("MessageService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func hasRequiredFields(req *dto.CreateMessageRequest) bool {
	return strings.TrimSpace(req.ChatTitle) != "" &&
		req.Sender != "" &&
		req.Content != "" &&
		req.Sequence != nil
}

func validSender(userId uuid.UUID, sender string) bool {
	return sender == conversation.BotSender || sender == userId.String()
}

func toMessageEntity(userId uuid.UUID, req *dto.CreateMessageRequest) *entity.Message {
	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	return &entity.Message{
		UserId:            userId,
		ConversationTitle: strings.TrimSpace(req.ChatTitle),
		Sender:            req.Sender,
		Content:           req.Content,
		HasCode:           req.HasCode,
		Sequence:          *req.Sequence,
		Timestamp:         ts,
	}
}

func toMessageResponse(m *entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:        m.Id,
		ChatTitle: m.ConversationTitle,
		Sender:    m.Sender,
		Content:   m.Content,
		HasCode:   m.HasCode,
		Sequence:  m.Sequence,
		Timestamp: m.Timestamp,
	}
}

func toMessageResponses(rows []*entity.Message) []dto.MessageResponse {
	res := make([]dto.MessageResponse, len(rows))
	for i, m := range rows {
		res[i] = toMessageResponse(m)
	}
	return res
}
