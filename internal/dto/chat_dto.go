package dto

import "techno-ai-be/pkg/conversation"

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type SwitchConversationRequest struct {
	Title string `json:"title" validate:"required"`
}

type RenameChatRequest struct {
	OldTitle string `json:"old_title" validate:"required"`
	NewTitle string `json:"new_title" validate:"required,max=255"`
}

type FormatRequest struct {
	Content  string `json:"content" validate:"required"`
	Question string `json:"question"`
}

type FormatResponse struct {
	Html string `json:"html"`
}

type ChatTurnResponse struct {
	Turn  conversation.Turn `json:"turn"`
	State conversation.View `json:"state"`
}
