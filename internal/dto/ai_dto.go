package dto

type AiChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type AiChatResponse struct {
	Response string `json:"response"`
}

type AiHealthResponse struct {
	Status     string `json:"status"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Configured bool   `json:"configured"`
	Reason     string `json:"reason,omitempty"`
}
