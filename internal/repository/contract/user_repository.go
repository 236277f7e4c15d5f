package contract

import (
	"context"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdatePreferences(ctx context.Context, userId uuid.UUID, prefs entity.UserPreferences) error
	UpdateProfile(ctx context.Context, userId uuid.UUID, profile string) error

	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
}
