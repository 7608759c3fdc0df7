package entity

import (
	"time"

	"github.com/google/uuid"
)

type Summary struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UserId        uuid.UUID
	Text          string
	CreatedAt     time.Time
}
