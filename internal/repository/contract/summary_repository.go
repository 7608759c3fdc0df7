package contract

import (
	"context"

	"chatbot-be/internal/entity"
)

type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
}
