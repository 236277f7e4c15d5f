package service

import (
	"context"

	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/memory"
	"techno-ai-be/internal/repository/specification"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/pkg/conversation"

	"github.com/google/uuid"
)

var ErrUserNotFound = serverutils.NewNotFoundError("user not found")

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferencesRequest) (*dto.PreferencesDTO, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   *memory.SessionRepository
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, sessions *memory.SessionRepository) IUserService {
	return &userService{
		uowFactory: uowFactory,
		sessions:   sessions,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	user, err := s.find(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &dto.UserProfileResponse{
		Id:            user.Id,
		FullName:      user.FullName,
		Email:         user.Email,
		Profile:       user.Profile,
		Method:        string(user.Method),
		AgreedToTerms: user.AgreedToTerms,
		Preferences:   toPreferencesDTO(user.Preferences),
		CreatedAt:     user.CreatedAt,
	}, nil
}

// UpdatePreferences merges the request into the stored preferences and
// pushes them to the user's live chat session.
func (s *userService) UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferencesRequest) (*dto.PreferencesDTO, error) {
	user, err := s.find(ctx, userId)
	if err != nil {
		return nil, err
	}

	prefs := user.Preferences
	if req.Theme != "" {
		prefs.Theme = req.Theme
	}
	if req.SidebarCollapsed != nil {
		prefs.SidebarCollapsed = *req.SidebarCollapsed
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().UpdatePreferences(ctx, userId, prefs); err != nil {
		return nil, serverutils.NewInternalError("Failed to update preferences", err)
	}

	if s.sessions != nil {
		if manager, ok := s.sessions.Get(userId.String()); ok {
			manager.SetPreferences(conversation.Preferences{
				Theme:            prefs.Theme,
				SidebarCollapsed: prefs.SidebarCollapsed,
			})
		}
	}

	out := toPreferencesDTO(prefs)
	return &out, nil
}

func (s *userService) find(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func toPreferencesDTO(p entity.UserPreferences) dto.PreferencesDTO {
	theme := p.Theme
	if theme == "" {
		theme = "light"
	}
	return dto.PreferencesDTO{Theme: theme, SidebarCollapsed: p.SidebarCollapsed}
}
