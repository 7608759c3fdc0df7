package contract

import (
	"context"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/repository/specification"
)

type PersonalInfoRepository interface {
	Create(ctx context.Context, info *entity.PersonalInfo) error
	Update(ctx context.Context, info *entity.PersonalInfo) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PersonalInfo, error)
}
