package dto

import "github.com/google/uuid"

type MessageDto struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []MessageDto `json:"messages" validate:"required,min=1,dive"`
	UserId      uuid.UUID    `json:"user_id" validate:"required"`
	ApiKey      string       `json:"api_key,omitempty"`
	Model       *string      `json:"model,omitempty"`
	Temperature *float64     `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int         `json:"max_tokens,omitempty" validate:"omitempty,gt=0"`
}

type ChatResponse struct {
	Response string                 `json:"response"`
	Usage    map[string]interface{} `json:"usage,omitempty"`
}
