package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Profile       string `json:"profile"`
	Method        string `json:"method"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the profile the browser obtained from Google.
type GoogleLoginRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Profile       string `json:"profile"`
	Method        string `json:"method"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

type UserDTO struct {
	Id            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Profile       *string   `json:"profile"`
	Method        string    `json:"method"`
	AgreedToTerms bool      `json:"agreed_to_terms"`
	CreatedAt     time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`

	// Created is true when the call registered a new account.
	Created bool `json:"-"`
}
