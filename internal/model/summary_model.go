package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SummaryData struct {
	Summary string `json:"summary"`
}

// Summary finalizes a chat session. There is at most one per session.
type Summary struct {
	Id            uuid.UUID                       `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID                       `gorm:"type:uuid;not null;uniqueIndex"`
	UserId        uuid.UUID                       `gorm:"type:uuid;not null;index"`
	SummaryData   datatypes.JSONType[SummaryData] `gorm:"not null"`
	CreatedAt     time.Time                       `gorm:"autoCreateTime"`
}

func (Summary) TableName() string {
	return "summaries"
}

func (s *Summary) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}
