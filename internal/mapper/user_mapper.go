package mapper

import (
	"encoding/json"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var prefs entity.UserPreferences
	if len(u.Preferences) > 0 {
		_ = json.Unmarshal(u.Preferences, &prefs)
	}

	return &entity.User{
		Id:            u.Id,
		FullName:      u.FullName,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Profile:       u.Profile,
		Method:        entity.AuthMethod(u.Method),
		Role:          entity.UserRole(u.Role),
		AgreedToTerms: u.AgreedToTerms,
		Preferences:   prefs,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	prefs, _ := json.Marshal(u.Preferences)
	role := string(u.Role)
	if role == "" {
		role = string(entity.UserRoleUser)
	}

	return &model.User{
		Id:            u.Id,
		FullName:      u.FullName,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Profile:       u.Profile,
		Method:        string(u.Method),
		Role:          role,
		AgreedToTerms: u.AgreedToTerms,
		Preferences:   prefs,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) UserProviderToModel(p *entity.UserProvider) *model.UserProvider {
	if p == nil {
		return nil
	}
	return &model.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}

func (m *UserMapper) UserProviderToEntity(p *model.UserProvider) *entity.UserProvider {
	if p == nil {
		return nil
	}
	return &entity.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}
