package unitofwork

import (
	"context"

	"chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	SummaryRepository() contract.SummaryRepository
	PersonalInfoRepository() contract.PersonalInfoRepository
}
