package contract

import (
	"context"

	"chatbot-be/internal/entity"

	"github.com/google/uuid"
)

// ProfileCache holds read-through copies of PersonalInfo keyed by user.
// Implementations must treat a miss and a backend error alike: (nil, false).
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.PersonalInfo, bool)
	Set(ctx context.Context, info *entity.PersonalInfo)
}
