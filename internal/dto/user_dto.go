package dto

import (
	"time"

	"github.com/google/uuid"
)

type PreferencesDTO struct {
	Theme            string `json:"theme" validate:"omitempty,oneof=light dark"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
}

type UpdatePreferencesRequest struct {
	Theme            string `json:"theme" validate:"omitempty,oneof=light dark"`
	SidebarCollapsed *bool  `json:"sidebar_collapsed"`
}

type UserProfileResponse struct {
	Id            uuid.UUID      `json:"id"`
	FullName      string         `json:"full_name"`
	Email         string         `json:"email"`
	Profile       *string        `json:"profile"`
	Method        string         `json:"method"`
	AgreedToTerms bool           `json:"agreed_to_terms"`
	Preferences   PreferencesDTO `json:"preferences"`
	CreatedAt     time.Time      `json:"created_at"`
}
