package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type AuthMethod string

const (
	UserRoleUser UserRole = "user"

	AuthMethodEmail  AuthMethod = "email"
	AuthMethodGoogle AuthMethod = "google"
)

func (m AuthMethod) Valid() bool {
	return m == AuthMethodEmail || m == AuthMethodGoogle
}

type UserPreferences struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
}

type User struct {
	Id            uuid.UUID
	FullName      string
	Email         string
	PasswordHash  *string
	Profile       *string
	Method        AuthMethod
	Role          UserRole
	AgreedToTerms bool
	Preferences   UserPreferences
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}
