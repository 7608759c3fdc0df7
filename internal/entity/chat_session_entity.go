package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string
	Content string
}

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time

	// Summary is only populated when the query asked for it.
	Summary *Summary
}
