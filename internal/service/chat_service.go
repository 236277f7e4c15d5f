package service

import (
	"context"
	"errors"

	"techno-ai-be/internal/config"
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/memory"
	"techno-ai-be/internal/repository/specification"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/pkg/conversation"
	"techno-ai-be/pkg/prompt"

	"github.com/google/uuid"
)

// IChatService drives the per-user conversation session.
type IChatService interface {
	State(ctx context.Context, userId uuid.UUID) (*conversation.View, error)
	Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.ChatTurnResponse, error)
	NewConversation(ctx context.Context, userId uuid.UUID) (*conversation.View, error)
	Switch(ctx context.Context, userId uuid.UUID, req *dto.SwitchConversationRequest) (*conversation.View, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameChatRequest) (*conversation.View, error)
	Delete(ctx context.Context, userId uuid.UUID, title string) (*dto.DeleteConversationResponse, error)
	Conversations(ctx context.Context, userId uuid.UUID) ([]conversation.Summary, error)
	Format(req *dto.FormatRequest) *dto.FormatResponse
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   *memory.SessionRepository
	completer  conversation.Completer
	store      conversation.Store
	renderer   conversation.Renderer
	notifier   conversation.Notifier
	logger     logger.ILogger
	cfg        config.AIConfig
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	completer conversation.Completer,
	store conversation.Store,
	renderer conversation.Renderer,
	notifier conversation.Notifier,
	logger logger.ILogger,
	cfg config.AIConfig,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		sessions:   sessions,
		completer:  completer,
		store:      store,
		renderer:   renderer,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *chatService) State(ctx context.Context, userId uuid.UUID) (*conversation.View, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}
	view := m.Snapshot()
	return &view, nil
}

func (s *chatService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.ChatTurnResponse, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}

	turn, err := m.Submit(ctx, req.Message)
	if err != nil {
		return nil, chatAppError(err)
	}
	return &dto.ChatTurnResponse{Turn: turn, State: m.Snapshot()}, nil
}

func (s *chatService) NewConversation(ctx context.Context, userId uuid.UUID) (*conversation.View, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}

	view, err := m.NewConversation(ctx)
	if err != nil {
		return nil, chatAppError(err)
	}
	return &view, nil
}

func (s *chatService) Switch(ctx context.Context, userId uuid.UUID, req *dto.SwitchConversationRequest) (*conversation.View, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}

	view, err := m.Switch(ctx, req.Title)
	if err != nil {
		return nil, chatAppError(err)
	}
	return &view, nil
}

func (s *chatService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameChatRequest) (*conversation.View, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}

	if err := m.Rename(ctx, req.OldTitle, req.NewTitle); err != nil {
		return nil, chatAppError(err)
	}
	view := m.Snapshot()
	return &view, nil
}

func (s *chatService) Delete(ctx context.Context, userId uuid.UUID, title string) (*dto.DeleteConversationResponse, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}

	deleted, err := m.Delete(ctx, title)
	if err != nil {
		return nil, chatAppError(err)
	}
	return &dto.DeleteConversationResponse{DeletedCount: deleted}, nil
}

func (s *chatService) Conversations(ctx context.Context, userId uuid.UUID) ([]conversation.Summary, error) {
	m, err := s.manager(ctx, userId)
	if err != nil {
		return nil, err
	}

	summaries, err := m.Summaries(ctx)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to fetch conversations", err)
	}
	return summaries, nil
}

func (s *chatService) Format(req *dto.FormatRequest) *dto.FormatResponse {
	return &dto.FormatResponse{Html: s.renderer.Format(req.Content, req.Question)}
}

// manager returns the user's live session, creating it from the stored
// profile on first use.
func (s *chatService) manager(ctx context.Context, userId uuid.UUID) (*conversation.Manager, error) {
	key := userId.String()
	if m, ok := s.sessions.Get(key); ok {
		return m, nil
	}

	user, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.sessions.GetOrCreate(key, func() *conversation.Manager {
		return conversation.NewManager(s.managerConfig(user), s.completer, s.store, s.renderer, s.notifier, s.logger)
	}), nil
}

func (s *chatService) managerConfig(user *entity.User) conversation.Config {
	return conversation.Config{
		UserID: user.Id.String(),
		Prompt: prompt.Options{
			RoleName: s.cfg.RoleName,
			UserName: user.FullName,
			Audience: s.cfg.Audience,
		},
		CompletionTimeout: s.cfg.CompletionTimeout,
		Preferences: conversation.Preferences{
			Theme:            user.Preferences.Theme,
			SidebarCollapsed: user.Preferences.SidebarCollapsed,
		},
	}
}

func chatAppError(err error) error {
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		return serverutils.NewBadRequestError("Message is required")
	case errors.Is(err, conversation.ErrEmptyTitle):
		return serverutils.NewBadRequestError("Conversation title is required")
	case errors.Is(err, conversation.ErrBusy):
		return serverutils.NewConflictError("A response is still pending")
	default:
		return serverutils.NewInternalError("Chat operation failed", err)
	}
}
