package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatMessage is the JSON element stored in chat_sessions.messages.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatSession struct {
	Id        uuid.UUID                        `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID                        `gorm:"type:uuid;not null;index"`
	Messages  datatypes.JSONSlice[ChatMessage] `gorm:"not null"`
	CreatedAt time.Time                        `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time                        `gorm:"autoUpdateTime;index"`

	User    *User    `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Summary *Summary `gorm:"foreignKey:ChatSessionId;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}
