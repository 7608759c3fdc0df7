package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveSessionRequest struct {
	Messages        []MessageDto `json:"messages" validate:"dive"`
	UserId          uuid.UUID    `json:"user_id" validate:"required"`
	GenerateSummary *bool        `json:"generate_summary,omitempty"`
}

// ShouldGenerateSummary defaults to true: clients omit the flag on logout.
func (r *SaveSessionRequest) ShouldGenerateSummary() bool {
	return r.GenerateSummary == nil || *r.GenerateSummary
}

type SummaryDto struct {
	Summary string `json:"summary"`
}

type SaveSessionResponse struct {
	Message      string            `json:"message"`
	SessionId    uuid.UUID         `json:"session_id"`
	Summary      *SummaryDto       `json:"summary,omitempty"`
	PersonalInfo map[string]string `json:"personal_info,omitempty"`
}

type UpdateSessionRequest struct {
	Messages []MessageDto `json:"messages" validate:"dive"`
}

type UpdateSessionResponse struct {
	Message   string    `json:"message"`
	SessionId uuid.UUID `json:"session_id"`
}

type ActiveSessionResponse struct {
	SessionId *uuid.UUID   `json:"session_id"`
	Messages  []MessageDto `json:"messages"`
}

type SessionListItem struct {
	Id        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Summary   *SummaryDto `json:"summary"`
}

type SessionListResponse struct {
	Sessions []SessionListItem `json:"sessions"`
}

type SessionDetailResponse struct {
	Id        uuid.UUID    `json:"id"`
	Messages  []MessageDto `json:"messages"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Summary   *SummaryDto  `json:"summary"`
}
