package specification

import (
	"time"

	"gorm.io/gorm"
)

// ActiveSession keeps sessions that have not been finalized with a summary.
type ActiveSession struct{}

func (s ActiveSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM summaries WHERE summaries.chat_session_id = chat_sessions.id)")
}

type UpdatedSince struct {
	Cutoff time.Time
}

func (s UpdatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_sessions.updated_at >= ?", s.Cutoff)
}

// WithSummary eager-loads the session summary.
type WithSummary struct{}

func (s WithSummary) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Summary")
}
